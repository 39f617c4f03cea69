package web2pdf

import (
	"context"
	"math"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// Renderer converts web documents into paginated PDFs. It owns the transient
// rendering surface and the active load-completion strategy for the duration
// of a single render call; both are released unconditionally when the call
// completes, regardless of outcome.
//
// A Renderer runs one render at a time. For parallel rendering use a
// RendererPool, which hands out independent instances.
type Renderer struct {
	cfg       rendererConfig
	log       *zap.Logger
	browser   browserHandle
	observers []Observer
	exporter  *exportPipeline
}

// New creates a Renderer with default configuration. Unless a browser is
// injected with WithBrowser, a headless Chromium is launched lazily on the
// first render.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:         defaultTimeout,
			pollInterval:    defaultPollInterval,
			strategy:        StrategyPolling,
			readySignal:     defaultReadySignal,
			scale:           defaultScale,
			printBackground: true,
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.browser == nil {
		r.browser = &launchedBrowser{}
	}
	r.exporter = &exportPipeline{
		log:             r.log,
		scale:           r.cfg.scale,
		printBackground: r.cfg.printBackground,
	}

	return r
}

// RenderURL loads the request's source on a transient surface, waits for the
// load-completion strategy to resolve, and exports the result. The surface
// and strategy are torn down on every exit path.
func (r *Renderer) RenderURL(ctx context.Context, req Request) (Result, error) {
	res, err := r.renderURL(ctx, req)
	r.notify(req, res, err)
	return res, err
}

// RenderPage exports an already-loaded page. No load-completion strategy is
// armed: the caller guarantees the page has finished loading. The page stays
// owned by the caller and is not closed.
func (r *Renderer) RenderPage(ctx context.Context, page *rod.Page, req Request) (Result, error) {
	res, err := r.renderSurface(ctx, &rodSurface{page: page}, req)
	r.notify(req, res, err)
	return res, err
}

// Close releases the browser if this Renderer owns one.
func (r *Renderer) Close() error {
	return r.browser.Close()
}

func (r *Renderer) renderURL(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	surface, err := r.browser.NewSurface()
	if err != nil {
		return Result{}, err
	}
	defer surface.Close()

	geom := ComputeGeometry(req.Paper, req.Landscape, req.Margins)
	if err := surface.SetViewport(pixelSize(geom.PageRect)); err != nil {
		return Result{}, err
	}

	strategy := r.newStrategy()
	defer strategy.Stop()

	loader := &documentLoader{baseRoot: req.BaseRoot}
	if loader.baseRoot == "" {
		loader.baseRoot = r.cfg.baseRoot
	}
	if err := loader.Load(surface, strategy, req.Source); err != nil {
		return Result{}, err
	}

	if err := awaitCompletion(ctx, strategy); err != nil {
		return Result{}, err
	}

	return r.export(ctx, surface, geom, req)
}

func (r *Renderer) renderSurface(ctx context.Context, surface renderSurface, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	geom := ComputeGeometry(req.Paper, req.Landscape, req.Margins)
	return r.export(ctx, surface, geom, req)
}

func (r *Renderer) export(ctx context.Context, surface renderSurface, geom PageGeometry, req Request) (Result, error) {
	if err := r.exporter.Export(ctx, surface, geom, req.OutputPath); err != nil {
		return Result{}, err
	}
	return Result{Path: req.OutputPath, Geometry: geom}, nil
}

// newStrategy picks the strategy variant configured at construction time.
func (r *Renderer) newStrategy() completionStrategy {
	if r.cfg.strategy == StrategySignal {
		return newSignalStrategy(r.cfg.readySignal)
	}
	return newPollingStrategy(r.cfg.pollInterval)
}

// notify fires the notification surface exactly once per render: every
// registered observer plus the request's completion callback receive the same
// outcome.
func (r *Renderer) notify(req Request, res Result, err error) {
	if err != nil {
		r.log.Warn("render failed",
			zap.String("source", req.Source),
			zap.Error(err),
		)
		for _, o := range r.observers {
			o.RenderFailed(err)
		}
	} else {
		for _, o := range r.observers {
			o.RenderSucceeded(res)
		}
	}

	if req.OnComplete != nil {
		req.OnComplete(res, err)
	}
}

// pixelSize converts a page rectangle in points to CSS pixel dimensions for
// the viewport (96 px per inch).
func pixelSize(page Rect) (w, h int) {
	const pixelsPerInch = 96.0
	w = int(math.Round(page.W / PointsPerInch * pixelsPerInch))
	h = int(math.Round(page.H / PointsPerInch * pixelsPerInch))
	return w, h
}
