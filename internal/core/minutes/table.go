package minutes

import (
	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

var tablePage = tmpl.MustCompile("htmltable", `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
</head>
<body>
<h1>{{ .Title }}</h1>
<table border="1">
<tr><th>Time</th><th>Type</th><th>Who</th><th>Text</th></tr>
{{- range .Rows }}
{{ . }}
{{- end }}
</table>
</body>
</html>
`)

// HTMLTable writes the minutes as a single table with one row per item.
type HTMLTable struct{}

func (HTMLTable) Format(s *meeting.Session) (meeting.Result, error) {
	d, err := newDigest(s)
	if err != nil {
		return meeting.Result{}, err
	}
	rc := meeting.RenderContext{LogURL: d.LogURL}

	rows := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		row, err := meeting.Render(it, meeting.FormatHTMLLog, rc)
		if err != nil {
			return meeting.Result{}, err
		}
		rows = append(rows, row)
	}

	text, err := tablePage.Execute(struct {
		Title string
		Rows  []string
	}{Title: meeting.EscapeHTML(d.Title), Rows: rows})
	if err != nil {
		return meeting.Result{}, err
	}
	return meeting.Result{Text: text}, nil
}
