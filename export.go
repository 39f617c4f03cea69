package web2pdf

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// exportPipeline turns a loaded surface plus computed geometry into a PDF
// file on disk.
type exportPipeline struct {
	log             *zap.Logger
	scale           float64
	printBackground bool
}

// Export runs the paginated print job and persists the result atomically.
// A missing, uncreatable destination directory fails before any print work is
// performed.
func (e *exportPipeline) Export(ctx context.Context, surface renderSurface, geom PageGeometry, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fileutil.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputPathUnavailable, err)
	}

	buf, err := surface.PrintToPDF(e.printOptions(geom))
	if err != nil {
		return err
	}

	if err := fileutil.WriteFileAtomic(outputPath, buf, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWriteFailed, err)
	}

	e.log.Info("wrote pdf",
		zap.String("path", outputPath),
		zap.Int("bytes", len(buf)),
	)
	return nil
}

// printOptions translates page geometry into CDP print parameters. The
// geometry already carries the orientation swap, so the paper is always
// handed over as-is with Landscape unset. Degenerate printable rectangles
// pass through and fail inside the print job.
func (e *exportPipeline) printOptions(geom PageGeometry) *proto.PagePrintToPDF {
	page := geom.PageRect
	printable := geom.PrintableRect

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(page.W / PointsPerInch),
		PaperHeight:     floatPtr(page.H / PointsPerInch),
		MarginLeft:      floatPtr(printable.X / PointsPerInch),
		MarginTop:       floatPtr(printable.Y / PointsPerInch),
		MarginRight:     floatPtr((page.W - printable.X - printable.W) / PointsPerInch),
		MarginBottom:    floatPtr((page.H - printable.Y - printable.H) / PointsPerInch),
		Scale:           floatPtr(e.scale),
		PrintBackground: e.printBackground,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
