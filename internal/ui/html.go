package ui

import (
	"fmt"
	"html/template"
	"io"

	"github.com/lehigh-university-libraries/letterbox/internal/models"
)

var pageTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.letter-section h2 { margin-top: 1.5rem; }
.result-item { border: 1px solid #ddd; border-radius: 6px; padding: 0.5rem 1rem; margin: 0.5rem 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="results">
{{- range .Sections}}
<div class="letter-section">
{{- if .Heading}}
<h2>{{.Heading}}</h2>
{{- end}}
{{- range .Cards}}
<div class="result-item">
{{- if .Letter}}
<p><strong>Letter:</strong> {{.Letter}}</p>
{{- end}}
<p><strong>Word:</strong> {{.Word}}</p>
<p><strong>Image:</strong><br><a href="{{.ImageURL}}" target="_blank" rel="noopener">{{$.LinkText}}</a></p>
</div>
{{- end}}
</div>
{{- else}}
<p>No results returned</p>
{{- end}}
</div>
</body>
</html>
`))

// RenderHTML writes results as a standalone HTML page
func RenderHTML(w io.Writer, title string, res models.Results) error {
	data := struct {
		Title    string
		LinkText string
		Sections []Section
	}{
		Title:    title,
		LinkText: ImageLinkText,
		Sections: BuildSections(res),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render results page: %w", err)
	}
	return nil
}
