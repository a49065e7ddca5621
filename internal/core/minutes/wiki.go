package minutes

import (
	"strconv"
	"strings"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

// MediaWiki writes minutes in MediaWiki markup.
type MediaWiki struct{}

func (MediaWiki) Format(s *meeting.Session) (meeting.Result, error) {
	d, err := newDigest(s)
	if err != nil {
		return meeting.Result{}, err
	}
	rc := meeting.RenderContext{LogURL: d.LogURL}
	esc := meeting.EscapeWiki

	var b strings.Builder
	b.WriteString("= " + esc(d.Title) + " =\n\n")
	b.WriteString("Meeting started by " + esc(d.Owner) + " at " + d.Start + ". " +
		"The full logs are available at " + d.LogURL + " .\n\n")

	b.WriteString("== Meeting summary ==\n\n")
	for _, g := range d.Groups {
		bullet := "*"
		if g.Topic != nil {
			line, err := meeting.Render(g.Topic, meeting.FormatWiki, rc)
			if err != nil {
				return meeting.Result{}, err
			}
			b.WriteString("* " + line + "\n")
			bullet = "**"
		}
		for _, it := range g.Items {
			line, err := meeting.Render(it, meeting.FormatWiki, rc)
			if err != nil {
				return meeting.Result{}, err
			}
			b.WriteString(bullet + " " + line + "\n")
		}
	}
	b.WriteString("\n")

	if d.End != "" {
		b.WriteString("Meeting ended at " + d.End + ".\n\n")
	}

	b.WriteString("== Action items ==\n\n")
	if len(d.Actions) == 0 {
		b.WriteString("* (none)\n")
	}
	for _, it := range d.Actions {
		b.WriteString("* " + esc(it.Line) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("== Action items, by person ==\n\n")
	for _, a := range d.ByPerson {
		b.WriteString("* " + esc(a.Nick) + "\n")
		for _, it := range a.Actions {
			b.WriteString("** " + esc(it.Line) + "\n")
		}
	}
	if len(d.Unassigned) > 0 {
		b.WriteString("* '''UNASSIGNED'''\n")
		for _, it := range d.Unassigned {
			b.WriteString("** " + esc(it.Line) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("== People present (lines said) ==\n\n")
	for _, a := range d.Attendees {
		b.WriteString("* " + esc(a.Nick) + " (" + strconv.Itoa(a.Lines) + ")\n")
	}
	b.WriteString("\n''Generated by [" + d.InfoURL + " MeetBot] " + esc(d.Version) + "''\n")

	return meeting.Result{Text: b.String()}, nil
}
