package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	web2pdf "github.com/alnah/go-web2pdf"
	"github.com/alnah/go-web2pdf/internal/config"
	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// Renderer is the interface for a single rendering instance.
type Renderer interface {
	RenderURL(ctx context.Context, req web2pdf.Request) (web2pdf.Result, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*web2pdf.Renderer)(nil)

// Pool abstracts renderer pool operations for testability.
type Pool interface {
	Acquire() Renderer
	Release(Renderer)
	Size() int
}

// rendererPool adapts web2pdf.RendererPool to the Pool interface.
type rendererPool struct {
	p *web2pdf.RendererPool
}

func (a rendererPool) Acquire() Renderer { return a.p.Acquire() }

func (a rendererPool) Release(r Renderer) {
	if rr, ok := r.(*web2pdf.Renderer); ok {
		a.p.Release(rr)
	}
}

func (a rendererPool) Size() int { return a.p.Size() }

// renderTask is one source/destination pair to process.
type renderTask struct {
	Source     string
	OutputPath string
}

// renderOutcome holds the result of a single render.
type renderOutcome struct {
	Task     renderTask
	Err      error
	Duration time.Duration
}

// renderParams groups the page settings shared by all tasks of one run.
type renderParams struct {
	paper     web2pdf.PaperSize
	landscape bool
	margins   web2pdf.Margins
}

// resolveParams merges config-file values and flags into page parameters and
// renderer options. Flags win over the config file.
func resolveParams(flags *cliFlags, cfg *config.Config) (renderParams, []web2pdf.Option, error) {
	params := renderParams{
		paper:     web2pdf.PaperLetter,
		landscape: strings.EqualFold(cfg.Page.Orientation, "landscape"),
		margins:   web2pdf.UniformMargins(cfg.Page.Margin),
	}
	if cfg.Page.Size != "" {
		params.paper = web2pdf.PaperSize(cfg.Page.Size)
	}
	if flags.page.size != "" {
		params.paper = web2pdf.PaperSize(flags.page.size)
	}
	if flags.page.landscape {
		params.landscape = true
	}

	if flags.page.margin != marginSentinel {
		params.margins = web2pdf.UniformMargins(flags.page.margin)
	}
	for _, side := range []struct {
		flag float64
		dst  *float64
	}{
		{flags.page.marginTop, &params.margins.Top},
		{flags.page.marginLeft, &params.margins.Left},
		{flags.page.marginBottom, &params.margins.Bottom},
		{flags.page.marginRight, &params.margins.Right},
	} {
		if side.flag != marginSentinel {
			*side.dst = side.flag
		}
	}

	if err := params.paper.Validate(); err != nil {
		return renderParams{}, nil, err
	}
	if err := params.margins.Validate(); err != nil {
		return renderParams{}, nil, err
	}

	opts, err := resolveOptions(flags, cfg)
	if err != nil {
		return renderParams{}, nil, err
	}
	return params, opts, nil
}

// resolveOptions builds the renderer options from flags and config.
func resolveOptions(flags *cliFlags, cfg *config.Config) ([]web2pdf.Option, error) {
	var opts []web2pdf.Option

	timeout := cfg.Timeout(0)
	if flags.render.timeout != "" {
		d, err := time.ParseDuration(flags.render.timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flags.render.timeout, err)
		}
		timeout = d
	}
	if timeout > 0 {
		opts = append(opts, web2pdf.WithTimeout(timeout))
	}

	strategy := cfg.Render.Strategy
	if flags.render.strategy != "" {
		strategy = flags.render.strategy
	}
	if strategy != "" {
		s := web2pdf.Strategy(strings.ToLower(strategy))
		if err := s.Validate(); err != nil {
			return nil, err
		}
		opts = append(opts, web2pdf.WithStrategy(s))
	}

	if signal := firstNonEmpty(flags.render.signal, cfg.Render.ReadySignal); signal != "" {
		opts = append(opts, web2pdf.WithReadySignal(signal))
	}
	if root := firstNonEmpty(flags.render.baseRoot, cfg.Render.BaseRoot); root != "" {
		opts = append(opts, web2pdf.WithBaseRoot(root))
	}
	if flags.render.noBackground || (cfg.Render.Background != nil && !*cfg.Render.Background) {
		opts = append(opts, web2pdf.WithPrintBackground(false))
	}
	if flags.render.scale > 0 {
		opts = append(opts, web2pdf.WithScale(flags.render.scale))
	}

	return opts, nil
}

// buildTasks pairs each source with an output path. A single source with an
// explicit .pdf output goes straight there; otherwise output names are
// derived from the source inside the output directory.
func buildTasks(sources []string, flags *cliFlags, cfg *config.Config) ([]renderTask, error) {
	if len(sources) == 0 {
		return nil, ErrNoInput
	}

	if len(sources) == 1 && strings.HasSuffix(strings.ToLower(flags.output), ".pdf") {
		return []renderTask{{Source: sources[0], OutputPath: flags.output}}, nil
	}

	outDir := flags.output
	if outDir == "" {
		outDir = cfg.Output.DefaultDir
	}

	tasks := make([]renderTask, 0, len(sources))
	for _, src := range sources {
		tasks = append(tasks, renderTask{
			Source:     src,
			OutputPath: filepath.Join(outDir, deriveOutputName(src)),
		})
	}
	return tasks, nil
}

// deriveOutputName maps a source reference to a PDF file name.
func deriveOutputName(source string) string {
	if fileutil.IsURL(source) {
		u, err := url.Parse(source)
		if err != nil {
			return "output.pdf"
		}
		name := sanitizeName(u.Host + u.Path)
		if name == "" {
			name = "output"
		}
		return name + ".pdf"
	}

	base := filepath.Base(strings.TrimPrefix(source, "file://"))
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".pdf"
}

// sanitizeName replaces path-hostile characters so a URL becomes a file name.
func sanitizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.Trim(s, "/") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// runRender executes all tasks through the pool and reports a summary.
func runRender(ctx context.Context, flags *cliFlags, tasks []renderTask, params renderParams, pool Pool) error {
	if flags.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, flags.workers)
	}

	workers := pool.Size()
	if workers > len(tasks) {
		workers = len(tasks)
	}

	taskCh := make(chan renderTask)
	outcomes := make([]renderOutcome, 0, len(tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				outcome := runTask(ctx, task, params, pool)
				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
		}()
	}

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)
	wg.Wait()

	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", o.Task.Source, o.Err)
			continue
		}
		if !flags.common.quiet {
			fmt.Printf("Created %s (%s)\n", o.Task.OutputPath, o.Duration.Round(time.Millisecond))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d renders failed", failed, len(tasks))
	}
	return nil
}

// runTask renders one task on a pooled renderer.
func runTask(ctx context.Context, task renderTask, params renderParams, pool Pool) renderOutcome {
	r := pool.Acquire()
	defer pool.Release(r)

	start := time.Now()
	_, err := r.RenderURL(ctx, web2pdf.Request{
		Source:     task.Source,
		OutputPath: task.OutputPath,
		Paper:      params.paper,
		Landscape:  params.landscape,
		Margins:    params.margins,
	})

	return renderOutcome{Task: task, Err: err, Duration: time.Since(start)}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
