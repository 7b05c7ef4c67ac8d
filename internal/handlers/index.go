package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Letterbox results</title></head>
<body>
<h1>Letterbox results</h1>
<ul>
{{- range .}}
<li><a href="/results/{{.ID}}">{{.Source}}</a> ({{.Results.Len}} words)</li>
{{- else}}
<li>No result files loaded</li>
{{- end}}
</ul>
</body>
</html>
`))

func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, h.store.GetAll()); err != nil {
		slog.Error("Unable to render index", "err", err)
	}
}
