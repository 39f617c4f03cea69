// Package web2pdf renders web documents into paginated PDFs using headless
// Chrome.
//
// # Quick Start
//
// Create a renderer, render a URL, and close when done:
//
//	r := web2pdf.New()
//	defer r.Close()
//
//	result, err := r.RenderURL(ctx, web2pdf.Request{
//	    Source:     "https://example.com",
//	    OutputPath: "out/example.pdf",
//	    Paper:      web2pdf.PaperA4,
//	    Margins:    web2pdf.UniformMargins(36),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", result.Path)
//
// # Render Pipeline
//
// A render goes through these stages:
//
//  1. Page geometry computation (paper size, orientation, margins)
//  2. Document load on a transient browser page (local file or network URL)
//  3. Load-completion detection (polling or ready-signal strategy)
//  4. Paginated PDF export and atomic write to the output path
//
// Local-file loads are restricted to a base access root; paths escaping it
// are rejected. The transient page is torn down on every exit path.
//
// # Load Completion
//
// Rendering engines expose no single universal "fully loaded" signal, so the
// renderer offers two strategies. The default polls the document's loading
// state once per second. The signal strategy exposes a binding into the page
// before navigation and waits for the document to call it:
//
//	r := web2pdf.New(
//	    web2pdf.WithStrategy(web2pdf.StrategySignal),
//	    web2pdf.WithReadySignal("__appReady"),
//	)
//
// The page opts in with a script such as:
//
//	window.addEventListener("load", () => window.__appReady());
//
// Either way a configurable timeout bounds the wait; a document that never
// finishes loading fails with ErrLoadTimeout instead of stalling the render.
//
// # Configuration
//
// Use functional options to customize the renderer:
//
//	r := web2pdf.New(
//	    web2pdf.WithTimeout(2 * time.Minute),
//	    web2pdf.WithBrowser(browser),
//	    web2pdf.WithLogger(logger),
//	)
//
// One Renderer runs one render at a time. For parallel work use
// RendererPool, which hands out independent instances each owning their own
// browser.
package web2pdf
