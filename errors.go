package web2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrBrowserConnect        = errors.New("failed to connect to browser")
	ErrLoadTargetUnavailable = errors.New("no render target available")
	ErrPageLoad              = errors.New("failed to load page")
	ErrLoadTimeout           = errors.New("page load timed out")
	ErrPDFGeneration         = errors.New("PDF generation failed")

	// Document loader errors.
	ErrStorageRootUnavailable = errors.New("no base access root available")
	ErrSourceOutsideRoot      = errors.New("source path escapes base access root")

	// Export pipeline errors.
	ErrOutputPathUnavailable = errors.New("output directory unavailable")
	ErrOutputWriteFailed     = errors.New("output write failed")

	// Request validation errors.
	ErrEmptySource      = errors.New("source cannot be empty")
	ErrEmptyOutputPath  = errors.New("output path cannot be empty")
	ErrInvalidPaperSize = errors.New("invalid paper size")
	ErrInvalidMargin    = errors.New("invalid margin")
	ErrInvalidStrategy  = errors.New("invalid load strategy")
)
