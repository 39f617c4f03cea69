package web2pdf

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// renderSurface abstracts the browser page so load strategies and the export
// pipeline can be tested without a running browser.
type renderSurface interface {
	// Navigate starts loading the given URL.
	Navigate(url string) error
	// Loading reports whether the current document is still loading.
	Loading() (bool, error)
	// BindSignal exposes a nullary function to the page's script context
	// under the given name. The returned stop func removes the binding.
	BindSignal(name string, fn func()) (stop func(), err error)
	// SetViewport resizes the surface to the given pixel dimensions.
	SetViewport(width, height int) error
	// PrintToPDF runs the paginated print job and returns the PDF bytes.
	PrintToPDF(opts *proto.PagePrintToPDF) ([]byte, error)
	// Close tears the surface down.
	Close() error
}

// browserHandle abstracts browser ownership: creating transient surfaces and
// releasing the underlying browser.
type browserHandle interface {
	NewSurface() (renderSurface, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ renderSurface = (*rodSurface)(nil)
	_ browserHandle = (*rodBrowser)(nil)
	_ browserHandle = (*launchedBrowser)(nil)
)

// rodSurface implements renderSurface on a rod page.
type rodSurface struct {
	page *rod.Page
}

func (s *rodSurface) Navigate(url string) error {
	return s.page.Navigate(url)
}

// Loading reports true until the document's readyState is "complete".
func (s *rodSurface) Loading() (bool, error) {
	res, err := s.page.Eval(`() => document.readyState`)
	if err != nil {
		return false, err
	}
	return res.Value.Str() != "complete", nil
}

func (s *rodSurface) BindSignal(name string, fn func()) (func(), error) {
	stop, err := s.page.Expose(name, func(gson.JSON) (interface{}, error) {
		fn()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = stop() }, nil
}

func (s *rodSurface) SetViewport(width, height int) error {
	return s.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
}

func (s *rodSurface) PrintToPDF(opts *proto.PagePrintToPDF) ([]byte, error) {
	reader, err := s.page.PDF(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return buf, nil
}

func (s *rodSurface) Close() error {
	return s.page.Close()
}

// rodBrowser wraps a caller-owned browser. Close is a no-op because the
// caller keeps ownership (see WithBrowser).
type rodBrowser struct {
	browser *rod.Browser
}

func newRodBrowser(b *rod.Browser) *rodBrowser {
	return &rodBrowser{browser: b}
}

func (b *rodBrowser) NewSurface() (renderSurface, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTargetUnavailable, err)
	}
	return &rodSurface{page: page}, nil
}

func (b *rodBrowser) Close() error { return nil }

// launchedBrowser lazily launches and owns a headless Chromium instance.
// Rod automatically downloads Chromium on first run if not found.
type launchedBrowser struct {
	mu      sync.Mutex
	browser *rod.Browser
}

// ensureBrowser lazily connects to the browser.
func (b *launchedBrowser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.browser = browser
	return nil
}

func (b *launchedBrowser) NewSurface() (renderSurface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTargetUnavailable, err)
	}
	return &rodSurface{page: page}, nil
}

func (b *launchedBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		err := b.browser.Close()
		b.browser = nil
		return err
	}
	return nil
}
