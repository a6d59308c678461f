package reports

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em auto; max-width: 1100px; color: #222; }
table { border-collapse: collapse; font-size: 0.85em; }
th, td { border: 1px solid #ccc; padding: 0.25em 0.5em; text-align: right; }
iframe { border: none; width: 100%; height: 560px; }
footer { margin-top: 2em; font-size: 0.8em; color: #777; }
</style>
</head>
<body>
{{.Content}}
<h2>Charts</h2>
{{if .ChartFile}}<iframe src="{{.ChartFile}}" title="Interactive spectra"></iframe>{{end}}
{{if .ImageFile}}<p><img src="{{.ImageFile}}" alt="Median spectra" style="max-width:100%;height:auto;"></p>{{end}}
<h2>Files</h2>
<ul>
{{range .Files}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ul>
<footer>Generated {{.GeneratedAt}} by gmm-batch {{.Version}}</footer>
</body>
</html>
`

// HTMLBuilder turns the markdown summary into the run's index page
type HTMLBuilder struct {
	goldmark goldmark.Markdown
	page     *template.Template
}

// PageData fills the index page template
type PageData struct {
	Title       string
	Content     template.HTML
	ChartFile   string
	ImageFile   string
	Files       []string
	GeneratedAt string
	Version     string
}

// NewHTMLBuilder creates an HTML builder
func NewHTMLBuilder() *HTMLBuilder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &HTMLBuilder{
		goldmark: md,
		page:     template.Must(template.New("index").Parse(pageTemplate)),
	}
}

// ConvertMarkdownToHTML converts markdown to HTML using goldmark
func (h *HTMLBuilder) ConvertMarkdownToHTML(markdownContent string) (string, error) {
	var buf bytes.Buffer
	if err := h.goldmark.Convert([]byte(markdownContent), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return buf.String(), nil
}

// BuildPage renders the markdown and wraps it in the index page
func (h *HTMLBuilder) BuildPage(markdownContent string, data PageData) (string, error) {
	content, err := h.ConvertMarkdownToHTML(markdownContent)
	if err != nil {
		return "", err
	}
	data.Content = template.HTML(content)

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
