package web2pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// Load strategy constants.
const (
	// StrategyPolling checks the surface's loading state on a fixed-interval
	// timer. Works with any document, at the cost of up to one interval of
	// extra latency.
	StrategyPolling Strategy = "polling"

	// StrategySignal installs a one-shot binding into the page before
	// navigation and resolves when the document calls it. Lower latency, but
	// requires the loaded content to cooperate.
	StrategySignal Strategy = "signal"
)

// Strategy selects how load completion is detected.
type Strategy string

// Validate checks that the strategy is a known variant (case-insensitive).
func (s Strategy) Validate() error {
	switch Strategy(strings.ToLower(string(s))) {
	case StrategyPolling, StrategySignal:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStrategy, string(s))
}

// Request describes a single render: where the document comes from, where the
// PDF goes, and the page layout. Immutable for the duration of one render.
type Request struct {
	// Source is a network URL (http/https), a file:// URL, or a local path.
	Source string

	// OutputPath is the destination PDF file.
	OutputPath string

	// Paper selects the page format. Required.
	Paper PaperSize

	// Landscape swaps the paper width and height.
	Landscape bool

	// Margins are the page insets in points. Zero value means no margins.
	Margins Margins

	// BaseRoot restricts local-file loads to a directory subtree.
	// Empty means the renderer's configured root (or the user cache dir).
	BaseRoot string

	// OnComplete, when set, receives the outcome in addition to the direct
	// return value and any registered observers. Called at most once.
	OnComplete func(Result, error)
}

// Validate checks that required fields are present and valid.
func (r Request) Validate() error {
	if r.Source == "" {
		return ErrEmptySource
	}
	if r.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	if err := r.Paper.Validate(); err != nil {
		return err
	}
	return r.Margins.Validate()
}

// Result is the success outcome of a render.
type Result struct {
	// Path is the written output file.
	Path string

	// Geometry is the page layout the PDF was produced with.
	Geometry PageGeometry
}

// Observer receives render outcomes. Each in-flight render notifies its
// observers at most once, with either the success or the failure channel.
type Observer interface {
	RenderSucceeded(result Result)
	RenderFailed(err error)
}

// Default configuration values.
const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = time.Second
	defaultReadySignal  = "__web2pdfReady"
	defaultScale        = 1.0
)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout         time.Duration
	pollInterval    time.Duration
	strategy        Strategy
	readySignal     string
	baseRoot        string
	scale           float64
	printBackground bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTimeout sets the per-render timeout covering load and export.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("web2pdf: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithPollInterval sets the polling strategy's check period.
// Panics if d <= 0.
func WithPollInterval(d time.Duration) Option {
	if d <= 0 {
		panic("web2pdf: WithPollInterval duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.pollInterval = d
	}
}

// WithStrategy selects the load-completion strategy. Default is polling.
func WithStrategy(s Strategy) Option {
	return func(r *Renderer) {
		r.cfg.strategy = s
	}
}

// WithReadySignal sets the binding name the signal strategy waits on.
func WithReadySignal(name string) Option {
	return func(r *Renderer) {
		r.cfg.readySignal = name
	}
}

// WithBaseRoot sets the default base access root for local-file loads.
func WithBaseRoot(dir string) Option {
	return func(r *Renderer) {
		r.cfg.baseRoot = dir
	}
}

// WithScale sets the print scale factor. Default is 1.0.
func WithScale(scale float64) Option {
	return func(r *Renderer) {
		r.cfg.scale = scale
	}
}

// WithPrintBackground controls whether background graphics are printed.
func WithPrintBackground(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.printBackground = enabled
	}
}

// WithBrowser injects an already-connected browser instead of the lazily
// launched default. The caller keeps ownership and must close it.
func WithBrowser(b *rod.Browser) Option {
	return func(r *Renderer) {
		r.browser = newRodBrowser(b)
	}
}

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// WithObserver registers an observer for render outcomes.
func WithObserver(o Observer) Option {
	return func(r *Renderer) {
		r.observers = append(r.observers, o)
	}
}
