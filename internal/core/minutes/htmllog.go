package minutes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

var (
	logCommandRE = regexp.MustCompile(`^(#\w+)(.*)$`)
	// Applied to escaped text, so quotes and angle brackets never appear raw.
	logURLRE = regexp.MustCompile(`(?:https?|ftp|irc|ssh)://[^\s]+`)
)

const pageStyle = `body { font-family: sans-serif; }
.tm { color: #007020; }
.nk { color: #062873; font-weight: bold; }
.nka { color: #062873; font-style: italic; }
.cmd { color: #007020; font-weight: bold; }
.cmdline { font-weight: bold; }
.details { font-size: 80%; }
i.ACTION, i.AGREED, i.ACCEPTED, i.REJECTED { font-weight: bold; }`

var htmlLogPage = tmpl.MustCompile("htmllog", `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style type="text/css">
{{ .Style }}
</style>
</head>
<body>
<pre>
{{ join .Lines "\n" }}
</pre>
</body>
</html>
`)

// HTMLLog writes the raw log as an HTML page with one anchored line per
// chat line, so minutes can link back to the moment an item was recorded.
type HTMLLog struct{}

func (HTMLLog) Format(s *meeting.Session) (meeting.Result, error) {
	raw := s.Lines()
	lines := make([]string, 0, len(raw))
	for i, line := range raw {
		lines = append(lines, formatLogLine(i+1, line))
	}

	text, err := htmlLogPage.Execute(struct {
		Title string
		Style string
		Lines []string
	}{
		Title: meeting.EscapeHTML(s.Channel() + " log"),
		Style: pageStyle,
		Lines: lines,
	})
	if err != nil {
		return meeting.Result{}, err
	}
	return meeting.Result{Text: text}, nil
}

// formatLogLine renders "15:04:05 <nick> text" or "15:04:05 * nick text".
func formatLogLine(num int, line string) string {
	anchor := fmt.Sprintf(`<a name="l-%d"></a>`, num)

	ts, rest, ok := strings.Cut(line, " ")
	if !ok {
		return anchor + meeting.EscapeHTML(line)
	}
	out := anchor + `<span class="tm">` + ts + `</span>`

	if action, ok := strings.CutPrefix(rest, "* "); ok {
		nick, text, _ := strings.Cut(action, " ")
		return out + `<span class="nka"> * ` + meeting.EscapeHTML(nick) + `</span> ` + linkify(meeting.EscapeHTML(text))
	}

	if strings.HasPrefix(rest, "<") {
		if end := strings.Index(rest, "> "); end > 0 {
			nick, text := rest[1:end], rest[end+2:]
			out += `<span class="nk"> &lt;` + meeting.EscapeHTML(nick) + `&gt;</span> `
			if m := logCommandRE.FindStringSubmatch(text); m != nil {
				return out + `<span class="cmd">` + meeting.EscapeHTML(m[1]) + `</span>` +
					`<span class="cmdline">` + linkify(meeting.EscapeHTML(m[2])) + `</span>`
			}
			return out + linkify(meeting.EscapeHTML(text))
		}
	}
	return out + " " + linkify(meeting.EscapeHTML(rest))
}

func linkify(escaped string) string {
	return logURLRE.ReplaceAllString(escaped, `<a href="$0">$0</a>`)
}
