package export

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"folio/internal/render"
)

// Raster is a PNG capture of the preview region together with its
// pixel dimensions.
type Raster struct {
	PNG    []byte
	Width  int
	Height int
}

// Rasterizer turns a rendered document into a raster of its preview
// region. The PDF pipeline depends only on this interface so tests can
// substitute a canned raster for headless Chrome.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) (Raster, error)
}

// RasterScale is the device scale factor applied during capture. Two
// device pixels per CSS pixel keeps text in the PDF crisp.
const RasterScale = 2.0

const (
	rasterViewportWidth = 900
	rasterSettle        = 300 * time.Millisecond
)

// RodRasterizer captures the preview region with headless Chrome.
type RodRasterizer struct {
	// Bin optionally points at a Chrome/Chromium binary. When empty
	// the launcher downloads or discovers one.
	Bin string
}

// Rasterize loads the document into a fresh headless browser, sizes
// the viewport at RasterScale, and screenshots the element with
// render.RegionID. The browser is torn down before returning.
func (r *RodRasterizer) Rasterize(ctx context.Context, html string) (Raster, error) {
	launch := launcher.New().Headless(true)
	if r.Bin != "" {
		launch = launch.Bin(r.Bin)
	}
	controlURL, err := launch.Launch()
	if err != nil {
		return Raster{}, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Raster{}, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return Raster{}, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             rasterViewportWidth,
		Height:            rasterViewportWidth,
		DeviceScaleFactor: RasterScale,
		Mobile:            false,
	}).Call(page); err != nil {
		return Raster{}, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return Raster{}, fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitStable(rasterSettle); err != nil {
		return Raster{}, fmt.Errorf("wait for layout: %w", err)
	}

	el, err := page.Element("#" + render.RegionID)
	if err != nil {
		return Raster{}, fmt.Errorf("locate preview region: %w", err)
	}

	png, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return Raster{}, fmt.Errorf("capture region: %w", err)
	}

	shape, err := el.Shape()
	if err != nil {
		return Raster{}, fmt.Errorf("measure region: %w", err)
	}
	box := shape.Box()

	return Raster{
		PNG:    png,
		Width:  int(box.Width * RasterScale),
		Height: int(box.Height * RasterScale),
	}, nil
}
