// Package export produces the two portable artifacts of a portfolio:
// a self-contained HTML document and a paginated A4 PDF rendered from
// a raster of the preview region.
package export

// A4 page geometry in millimeters. The raster is scaled to the full
// page width and sliced into page-height bands.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 295.0
)

// Page describes one PDF page: the vertical offset (in mm, zero or
// negative) at which the full scaled image is placed so that this
// page's band lands inside the visible area.
type Page struct {
	OffsetMM float64
}

// PlanPages computes the page layout for a raster of the given pixel
// dimensions. The image is scaled to the page width; each subsequent
// page shifts it up by one page height. A raster whose scaled height
// is an exact multiple of the page height still gets a trailing page:
// the planner keeps emitting pages while any non-negative remainder
// is left, so a 2x-height image yields three pages, the last visually
// blank. Returns nil for degenerate dimensions.
func PlanPages(rasterW, rasterH int) []Page {
	if rasterW <= 0 || rasterH <= 0 {
		return nil
	}

	imgHeight := float64(rasterH) * PageWidthMM / float64(rasterW)

	pages := []Page{{OffsetMM: 0}}
	remaining := imgHeight - PageHeightMM
	for remaining >= 0 {
		pages = append(pages, Page{OffsetMM: remaining - imgHeight})
		remaining -= PageHeightMM
	}
	return pages
}

// ScaledHeightMM returns the height of the raster once scaled to the
// page width.
func ScaledHeightMM(rasterW, rasterH int) float64 {
	if rasterW <= 0 {
		return 0
	}
	return float64(rasterH) * PageWidthMM / float64(rasterW)
}
