package minutes

import (
	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

var htmlPage = tmpl.MustCompile("html", `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style type="text/css">
{{ .Style }}
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
<p>Meeting started by {{ .Owner }} at {{ .Start }} (<a href="{{ .LogURL }}">full logs</a>).</p>

<h3>Meeting summary</h3>
<ol>
{{- range .Groups }}
<li>{{ .Head }}
{{- if .Items }}
<ol>
{{- range .Items }}
<li>{{ . }}</li>
{{- end }}
</ol>
{{- end }}
</li>
{{- end }}
</ol>

{{ if .End -}}
<p>Meeting ended at {{ .End }} (<a href="{{ .LogURL }}">full logs</a>).</p>
{{- else -}}
<p>Meeting in progress.</p>
{{- end }}
{{ if .Votes }}
<h3>Vote results</h3>
<ol>
{{- range .Votes }}
<li>{{ . }}</li>
{{- end }}
</ol>
{{ end }}
<h3>Action items</h3>
<ol>
{{- range .Actions }}
<li>{{ . }}</li>
{{- end }}
</ol>

<h3>Action items, by person</h3>
<ol>
{{- range .ByPerson }}
<li>{{ .Nick }}
<ol>
{{- range .Actions }}
<li>{{ . }}</li>
{{- end }}
</ol>
</li>
{{- end }}
{{- if .Unassigned }}
<li><b>UNASSIGNED</b>
<ol>
{{- range .Unassigned }}
<li>{{ . }}</li>
{{- end }}
</ol>
</li>
{{- end }}
</ol>

<h3>People present (lines said)</h3>
<ol>
{{- range .Attendees }}
<li>{{ .Nick }} ({{ .Lines }})</li>
{{- end }}
</ol>

<p>Generated by <a href="{{ .InfoURL }}">MeetBot</a> {{ .Version }}</p>
</body>
</html>
`)

type htmlGroup struct {
	Head  string
	Items []string
}

type htmlAssignment struct {
	Nick    string
	Actions []string
}

// HTML writes the minutes page: items grouped by topic followed by action
// items, vote results and attendance.
type HTML struct{}

func (HTML) Format(s *meeting.Session) (meeting.Result, error) {
	d, err := newDigest(s)
	if err != nil {
		return meeting.Result{}, err
	}
	rc := meeting.RenderContext{LogURL: d.LogURL}
	esc := meeting.EscapeHTML

	render := func(items []*meeting.Item) ([]string, error) {
		out := make([]string, 0, len(items))
		for _, it := range items {
			line, err := meeting.Render(it, meeting.FormatHTML, rc)
			if err != nil {
				return nil, err
			}
			out = append(out, line)
		}
		return out, nil
	}

	groups := make([]htmlGroup, 0, len(d.Groups))
	for _, g := range d.Groups {
		var hg htmlGroup
		if g.Topic != nil {
			if hg.Head, err = meeting.Render(g.Topic, meeting.FormatHTML, rc); err != nil {
				return meeting.Result{}, err
			}
		}
		if hg.Items, err = render(g.Items); err != nil {
			return meeting.Result{}, err
		}
		groups = append(groups, hg)
	}

	// Action lists show the bare text with a link back to the log.
	actionLine := func(it *meeting.Item) string {
		return esc(it.Line) + ` <span class="details">(<a href='` + d.LogURL + `#` + it.Anchor() + `'>` +
			esc(it.Nick) + `</a>, ` + it.Time + `)</span>`
	}
	actionLines := func(items []*meeting.Item) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, actionLine(it))
		}
		return out
	}

	byPerson := make([]htmlAssignment, 0, len(d.ByPerson))
	for _, a := range d.ByPerson {
		byPerson = append(byPerson, htmlAssignment{Nick: esc(a.Nick), Actions: actionLines(a.Actions)})
	}

	votes, err := render(d.Votes)
	if err != nil {
		return meeting.Result{}, err
	}

	attendees := make([]meeting.Attendee, 0, len(d.Attendees))
	for _, a := range d.Attendees {
		attendees = append(attendees, meeting.Attendee{Nick: esc(a.Nick), Lines: a.Lines})
	}

	text, err := htmlPage.Execute(map[string]any{
		"Title":      esc(d.Title),
		"Style":      pageStyle,
		"Owner":      esc(d.Owner),
		"Start":      d.Start,
		"End":        d.End,
		"LogURL":     d.LogURL,
		"InfoURL":    esc(d.InfoURL),
		"Version":    esc(d.Version),
		"Groups":     groups,
		"Votes":      votes,
		"Actions":    actionLines(d.Actions),
		"ByPerson":   byPerson,
		"Unassigned": actionLines(d.Unassigned),
		"Attendees":  attendees,
	})
	if err != nil {
		return meeting.Result{}, err
	}
	return meeting.Result{Text: text}, nil
}
