package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"path/filepath"
	"sync"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"folio/internal/bus"
	"folio/internal/render"
	"folio/internal/types"
)

const msgExportFailed = "Failed to export PDF. Please try again."

// ErrExportInProgress is returned when a PDF export is requested while
// another one is still running.
var ErrExportInProgress = fmt.Errorf("export already in progress")

// Exporter produces PDF artifacts. At most one export runs at a time;
// concurrent requests are rejected rather than queued.
type Exporter struct {
	raster Rasterizer
	bus    *bus.Bus
	log    *zap.Logger

	mu        sync.Mutex
	exporting bool
}

// NewExporter builds an Exporter. bus may be nil when no toast surface
// is attached (CLI batch export).
func NewExporter(raster Rasterizer, b *bus.Bus, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{raster: raster, bus: b, log: log}
}

// PDFFileName returns the download name for the PDF export.
func PDFFileName(p types.Portfolio) string {
	return p.ExportBaseName() + ".pdf"
}

// SavePDF renders the portfolio with the given theme, rasterizes it,
// and writes a paginated A4 PDF into dir, returning the full path. A
// failure at any stage leaves no partial file, emits an error toast,
// and clears the in-progress flag so the next attempt can proceed.
func (e *Exporter) SavePDF(ctx context.Context, dir string, p types.Portfolio, theme render.Theme) (string, error) {
	e.mu.Lock()
	if e.exporting {
		e.mu.Unlock()
		return "", ErrExportInProgress
	}
	e.exporting = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.exporting = false
		e.mu.Unlock()
	}()

	path, err := e.savePDF(ctx, dir, p, theme)
	if err != nil {
		e.log.Warn("pdf export failed", zap.Error(err))
		if e.bus != nil {
			e.bus.PublishToast(msgExportFailed, bus.ToastError)
		}
		return "", err
	}
	return path, nil
}

func (e *Exporter) savePDF(ctx context.Context, dir string, p types.Portfolio, theme render.Theme) (string, error) {
	doc, err := render.Page(p, theme)
	if err != nil {
		return "", err
	}

	raster, err := e.raster.Rasterize(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("rasterize preview: %w", err)
	}

	pdf, err := AssemblePDF(raster)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, PDFFileName(p))
	if err := writeFileAtomic(path, pdf); err != nil {
		return "", fmt.Errorf("save pdf export: %w", err)
	}
	return path, nil
}

// AssemblePDF slices the raster into A4 pages per PlanPages and
// assembles the document. Placing the full image at each page's
// negative offset and cropping the page's band to it are equivalent;
// cropping keeps the output free of overdraw between pages.
func AssemblePDF(raster Raster) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(raster.PNG))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pages := PlanPages(w, h)
	if pages == nil {
		return nil, fmt.Errorf("raster has no size")
	}

	// Pixels per millimeter once the image is scaled to page width.
	pxPerMM := float64(w) / PageWidthMM
	bandPx := int(math.Round(PageHeightMM * pxPerMM))

	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("raster image does not support cropping")
	}

	doc := fpdf.New("P", "mm", "A4", "")
	for i, page := range pages {
		doc.AddPage()

		// The band for this page starts where the negative offset
		// would have pushed the image off the top.
		top := bounds.Min.Y + int(math.Round(-page.OffsetMM*pxPerMM))
		bottom := top + bandPx
		if top >= bounds.Max.Y {
			// Trailing blank page from an exact-multiple height.
			continue
		}
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}

		band := sub.SubImage(image.Rect(bounds.Min.X, top, bounds.Max.X, bottom))
		var buf bytes.Buffer
		if err := png.Encode(&buf, band); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader(name, opts, &buf)
		bandMM := float64(bottom-top) / pxPerMM
		doc.ImageOptions(name, 0, 0, PageWidthMM, bandMM, false, opts, 0, "")
	}
	if doc.Err() {
		return nil, fmt.Errorf("assemble pdf: %w", doc.Error())
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
