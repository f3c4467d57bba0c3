package export

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"folio/internal/render"
	"folio/internal/types"
)

// staticShell is the standalone document wrapper for the HTML export.
// It carries its own styles so the file opens correctly with no build
// step, and keeps the Tailwind CDN script so region markup using
// utility classes also renders.
const staticShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Name}} - Portfolio</title>
<script src="https://cdn.tailwindcss.com"></script>
<style>
  body { margin: 0; padding: 32px; background: #f9fafb; color: #111827; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Roboto', sans-serif; }
  .preview { max-width: 768px; margin: 0 auto; }
  .preview-head { text-align: center; border-bottom: 1px solid #e5e7eb; padding-bottom: 32px; }
  .preview-head h1 { font-size: 36px; margin: 0 0 8px; }
  .subtitle { font-size: 20px; color: #4b5563; margin: 0; }
  section { margin-top: 32px; }
  h2 { font-size: 24px; margin: 0 0 16px; }
  .tags { display: flex; flex-wrap: wrap; gap: 8px; }
  .tag { padding: 8px 16px; border-radius: 8px; font-weight: 500; background: #dbeafe; color: #1e40af; }
  .tag.tech { padding: 4px 12px; font-size: 14px; background: #e5e7eb; color: #374151; }
  .project { padding: 24px; margin-bottom: 24px; border-radius: 8px; border: 1px solid #e5e7eb; background: #ffffff; }
  .project h3 { font-size: 20px; margin: 0 0 8px; }
  .project p { line-height: 1.6; color: #4b5563; }
  .empty-state { text-align: center; padding: 48px 0; color: #6b7280; }
</style>
</head>
<body class="bg-gray-50">
{{.Region}}
</body>
</html>
`

var staticTmpl = template.Must(template.New("static").Parse(staticShell))

type staticData struct {
	Name   string
	Region template.HTML
}

// StaticHTML renders the portfolio as a complete standalone document.
func StaticHTML(p types.Portfolio) (string, error) {
	region, err := render.Preview(p)
	if err != nil {
		return "", err
	}

	name := p.Name
	if name == "" {
		name = "Portfolio"
	}

	var buf bytes.Buffer
	err = staticTmpl.Execute(&buf, staticData{Name: name, Region: template.HTML(region)})
	if err != nil {
		return "", fmt.Errorf("render static document: %w", err)
	}
	return buf.String(), nil
}

// HTMLFileName returns the download name for the static export.
func HTMLFileName(p types.Portfolio) string {
	return p.ExportBaseName() + ".html"
}

// SaveHTML writes the static document into dir under HTMLFileName and
// returns the full path. The file appears atomically: a failed render
// or write leaves no partial artifact behind.
func SaveHTML(dir string, p types.Portfolio) (string, error) {
	doc, err := StaticHTML(p)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, HTMLFileName(p))
	if err := writeFileAtomic(path, []byte(doc)); err != nil {
		return "", fmt.Errorf("save html export: %w", err)
	}
	return path, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
