// Package render turns a Portfolio into the preview markup. Rendering
// is a pure function of state: the same snapshot always yields the
// same region, which is what makes the live preview and both export
// artifacts agree with each other.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"folio/internal/types"
)

//go:embed templates/preview.html templates/page.html
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// RegionID is the DOM id of the preview region. The rasterizer and
// the static exporter locate the region by it.
const RegionID = "portfolio-preview"

// Theme selects the preview color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Background returns the theme's page background color, used both for
// the rendered page and as the raster background during PDF export.
func (t Theme) Background() string {
	if t == ThemeDark {
		return "#111827"
	}
	return "#f9fafb"
}

// Preview renders the portfolio region markup (the element with
// RegionID). It never fails for any portfolio value; template errors
// indicate a programming bug and are returned for the caller to log.
func Preview(p types.Portfolio) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "preview.html", p); err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return buf.String(), nil
}

type pageData struct {
	Title      string
	Background string
	Dark       bool
	Region     template.HTML
}

// Page wraps the preview region in a complete themed document. This is
// what the rasterizer loads into headless Chrome.
func Page(p types.Portfolio, theme Theme) (string, error) {
	region, err := Preview(p)
	if err != nil {
		return "", err
	}

	title := p.Name
	if title == "" {
		title = "Portfolio"
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "page.html", pageData{
		Title:      title,
		Background: theme.Background(),
		Dark:       theme == ThemeDark,
		Region:     template.HTML(region),
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}
