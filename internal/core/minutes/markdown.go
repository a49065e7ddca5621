package minutes

import (
	"fmt"
	"strings"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

// Markdown writes minutes as CommonMark.
type Markdown struct{}

func (Markdown) Format(s *meeting.Session) (meeting.Result, error) {
	d, err := newDigest(s)
	if err != nil {
		return meeting.Result{}, err
	}
	rc := meeting.RenderContext{LogURL: d.LogURL}
	esc := meeting.EscapeMarkdown

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", esc(d.Title))
	fmt.Fprintf(&b, "Meeting started by %s at %s ([full logs](%s)).\n\n", esc(d.Owner), d.Start, d.LogURL)

	b.WriteString("## Meeting summary\n\n")
	for _, g := range d.Groups {
		indent := ""
		if g.Topic != nil {
			line, err := meeting.Render(g.Topic, meeting.FormatMarkdown, rc)
			if err != nil {
				return meeting.Result{}, err
			}
			b.WriteString("- " + line + "\n")
			indent = "  "
		}
		for _, it := range g.Items {
			line, err := meeting.Render(it, meeting.FormatMarkdown, rc)
			if err != nil {
				return meeting.Result{}, err
			}
			b.WriteString(indent + "- " + line + "\n")
		}
	}
	b.WriteString("\n")

	if d.End != "" {
		fmt.Fprintf(&b, "Meeting ended at %s.\n\n", d.End)
	}

	b.WriteString("## Action items\n\n")
	if len(d.Actions) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, it := range d.Actions {
		b.WriteString("- " + esc(it.Line) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("## Action items, by person\n\n")
	for _, a := range d.ByPerson {
		b.WriteString("- " + esc(a.Nick) + "\n")
		for _, it := range a.Actions {
			b.WriteString("  - " + esc(it.Line) + "\n")
		}
	}
	if len(d.Unassigned) > 0 {
		b.WriteString("- **UNASSIGNED**\n")
		for _, it := range d.Unassigned {
			b.WriteString("  - " + esc(it.Line) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString("## People present (lines said)\n\n")
	for _, a := range d.Attendees {
		fmt.Fprintf(&b, "- %s (%d)\n", esc(a.Nick), a.Lines)
	}
	fmt.Fprintf(&b, "\n_Generated by [MeetBot](%s) %s_\n", d.InfoURL, esc(d.Version))

	return meeting.Result{Text: b.String()}, nil
}
