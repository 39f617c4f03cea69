package web2pdf

import (
	"fmt"
	"strings"
)

// PointsPerInch is the PDF unit resolution. Paper dimensions and margins
// are expressed in points at this resolution.
const PointsPerInch = 72.0

// Paper size constants. Dimensions are orientation-neutral (portrait baseline).
const (
	PaperLetter  PaperSize = "letter"
	PaperLegal   PaperSize = "legal"
	PaperTabloid PaperSize = "tabloid"
	PaperA3      PaperSize = "a3"
	PaperA4      PaperSize = "a4"
	PaperA5      PaperSize = "a5"
)

// PaperSize selects a named paper format.
type PaperSize string

// paperDimensions maps each format to its portrait (width, height) in points.
var paperDimensions = map[PaperSize][2]float64{
	PaperLetter:  {612, 792},
	PaperLegal:   {612, 1008},
	PaperTabloid: {792, 1224},
	PaperA3:      {842, 1191},
	PaperA4:      {595, 842},
	PaperA5:      {420, 595},
}

// Dimensions returns the portrait width and height in points.
// Unknown sizes return (0, 0); call Validate first.
func (p PaperSize) Dimensions() (w, h float64) {
	dims, ok := paperDimensions[PaperSize(strings.ToLower(string(p)))]
	if !ok {
		return 0, 0
	}
	return dims[0], dims[1]
}

// Validate checks that the size is a known paper format (case-insensitive).
func (p PaperSize) Validate() error {
	if _, ok := paperDimensions[PaperSize(strings.ToLower(string(p)))]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPaperSize, string(p))
	}
	return nil
}

// Margins holds the four page insets in points.
type Margins struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// UniformMargins returns margins with the same inset on all four sides.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Left: v, Bottom: v, Right: v}
}

// Validate checks that no inset is negative. Margins large enough to leave a
// degenerate printable area are accepted here; they fail at export time.
func (m Margins) Validate() error {
	for _, v := range []float64{m.Top, m.Left, m.Bottom, m.Right} {
		if v < 0 {
			return fmt.Errorf("%w: %.2f (must be non-negative)", ErrInvalidMargin, v)
		}
	}
	return nil
}

// Rect is an axis-aligned rectangle in points.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether o lies fully within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.W <= r.X+r.W && o.Y+o.H <= r.Y+r.H
}

// PageGeometry is the computed page layout: the full paper rectangle and the
// margin-inset printable rectangle.
type PageGeometry struct {
	PageRect      Rect
	PrintableRect Rect
}

// ComputeGeometry derives the page geometry for a paper size, orientation,
// and margin set. Landscape swaps width and height before any other
// computation. No clamping is performed: margins that exceed the paper leave
// a degenerate printable rectangle, which is surfaced at export time rather
// than silently corrected here.
func ComputeGeometry(paper PaperSize, landscape bool, margins Margins) PageGeometry {
	w, h := paper.Dimensions()
	if landscape {
		w, h = h, w
	}

	return PageGeometry{
		PageRect: Rect{X: 0, Y: 0, W: w, H: h},
		PrintableRect: Rect{
			X: margins.Left,
			Y: margins.Top,
			W: w - margins.Left - margins.Right,
			H: h - margins.Top - margins.Bottom,
		},
	}
}
