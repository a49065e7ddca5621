package minutes

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

const textWidth = 76

// RST writes reStructuredText minutes. Every item carries a hyperlink
// reference whose definition, pointing into the HTML log, is listed at the
// end of the document.
type RST struct{}

func (RST) Format(s *meeting.Session) (meeting.Result, error) {
	d, err := newDigest(s)
	if err != nil {
		return meeting.Result{}, err
	}
	rc := meeting.RenderContext{LogURL: d.LogURL, Refs: s.Refs()}
	esc := meeting.EscapeRST

	var b strings.Builder
	heading := func(text, mark string, overline bool) {
		rule := strings.Repeat(mark, utf8.RuneCountInString(text))
		if overline {
			b.WriteString(rule + "\n")
		}
		b.WriteString(text + "\n" + rule + "\n\n")
	}
	paragraph := func(text string) {
		b.WriteString(wordwrap.String(text, textWidth) + "\n\n")
	}

	heading(esc(d.Title), "=", true)
	paragraph("Meeting started by " + esc(d.Owner) + " at " + d.Start + ".  " +
		"The full logs are available at " + d.LogURL + " .")

	heading("Meeting summary", "-", false)
	for _, g := range d.Groups {
		indent := ""
		if g.Topic != nil {
			line, err := meeting.Render(g.Topic, meeting.FormatRST, rc)
			if err != nil {
				return meeting.Result{}, err
			}
			b.WriteString("* " + line + "\n")
			indent = "  "
		}
		for _, it := range g.Items {
			line, err := meeting.Render(it, meeting.FormatRST, rc)
			if err != nil {
				return meeting.Result{}, err
			}
			b.WriteString(indent + "* " + line + "\n")
		}
	}
	b.WriteString("\n")

	if d.End != "" {
		paragraph("Meeting ended at " + d.End + ".")
	}

	heading("Action items", "-", false)
	writeList(&b, d.Actions, esc)

	heading("Action items, by person", "-", false)
	for _, a := range d.ByPerson {
		b.WriteString("* " + esc(a.Nick) + "\n")
		for _, it := range a.Actions {
			b.WriteString("  * " + esc(it.Line) + "\n")
		}
	}
	if len(d.Unassigned) > 0 {
		b.WriteString("* **UNASSIGNED**\n")
		for _, it := range d.Unassigned {
			b.WriteString("  * " + esc(it.Line) + "\n")
		}
	}
	if len(d.ByPerson) == 0 && len(d.Unassigned) == 0 {
		b.WriteString("* (none)\n")
	}
	b.WriteString("\n")

	heading("People present (lines said)", "-", false)
	for _, a := range d.Attendees {
		b.WriteString("* " + esc(a.Nick) + " (" + strconv.Itoa(a.Lines) + ")\n")
	}
	b.WriteString("\n")

	b.WriteString("Generated by `MeetBot`_ " + esc(d.Version) + "\n\n")
	b.WriteString(".. _`MeetBot`: " + d.InfoURL + "\n")

	if defs := rc.Refs.Definitions(d.Items); len(defs) > 0 {
		b.WriteString("\n" + strings.Join(defs, "\n") + "\n")
	}
	return meeting.Result{Text: b.String()}, nil
}

func writeList(b *strings.Builder, items []*meeting.Item, esc meeting.Escaper) {
	if len(items) == 0 {
		b.WriteString("* (none)\n\n")
		return
	}
	for _, it := range items {
		b.WriteString("* " + esc(it.Line) + "\n")
	}
	b.WriteString("\n")
}
