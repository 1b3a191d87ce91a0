package web

import (
	"html/template"
	"io"
	"log/slog"
	"net/http"

	"github.com/Vodeneev/tipsbot/internal/pkg/enums"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Tips bot</title></head>
<body>
<h1>Tips bot</h1>
<form method="post" action="/buscar">
  <label>Date <input type="date" name="date"></label>
  <label>Sport
    <select name="sport">
    {{- range .Sports}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
    {{- end}}
    </select>
  </label>
  <button type="submit">Send tips</button>
</form>
</body>
</html>
`))

var fragmentTemplate = template.Must(template.New("fragment").Parse(
	`{{if .Error}}<div style="color: red">Error: {{.Error}}</div>
{{else}}<div style="color: green">Sent via {{.Sink}}{{if .Degraded}} (degraded){{end}}</div>
<pre>{{.Title}}

{{.Text}}</pre>
{{end}}`))

type sportOption struct {
	Value    string
	Name     string
	Selected bool
}

func renderIndex(w io.Writer, selected enums.Sport) error {
	var options []sportOption
	for _, s := range enums.GetAllSports() {
		options = append(options, sportOption{
			Value:    string(s),
			Name:     s.GetSportInfo().Name,
			Selected: s == selected,
		})
	}
	return indexTemplate.Execute(w, struct{ Sports []sportOption }{options})
}

type fragment struct {
	Error    string
	Title    string
	Text     string
	Sink     string
	Degraded bool
}

func writeFragment(w http.ResponseWriter, status int, f fragment) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := fragmentTemplate.Execute(w, f); err != nil {
		slog.Error("Failed to render fragment", "error", err)
	}
}
