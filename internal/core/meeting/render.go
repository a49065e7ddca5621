package meeting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

// Format is an output format an item can be rendered into.
type Format int

const (
	FormatHTMLLog Format = iota // table row used by the legacy HTML minutes
	FormatHTML                  // HTML minutes list entry
	FormatText
	FormatRST
	FormatWiki // MediaWiki
	FormatMarkdown
)

var formatNames = [...]string{
	FormatHTMLLog:  "htmllog",
	FormatHTML:     "html",
	FormatText:     "text",
	FormatRST:      "rst",
	FormatWiki:     "wiki",
	FormatMarkdown: "markdown",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// ErrNoRefRegistry is returned when rendering RST without a reference registry.
var ErrNoRefRegistry = errors.New("rst rendering requires a reference registry")

// RenderContext carries the per-session values an item needs while rendering.
// It is passed in for each call and never stored on the item.
type RenderContext struct {
	LogURL string       // URL of the session's HTML log, used for backlinks
	Escape Escaper      // nil selects the format's default escaper
	Refs   *RefRegistry // required for FormatRST
}

// fields is the fixed set of placeholders available to item templates.
type fields struct {
	ItemType        string
	Nick            string
	Line            string
	Topic           string
	URL             string
	URLQuoteEscaped string
	Time            string
	Link            string
	Anchor          string
	RSTRef          string
	Start           string
	End             string
}

// markup wraps the important part of an item (topic text, link URL).
type markup struct{ start, end string }

var markups = map[Kind]map[Format]markup{
	KindTopic: {
		FormatHTMLLog:  {`<b class="TOPIC">`, `</b>`},
		FormatHTML:     {`<b class="TOPIC">`, `</b>`},
		FormatRST:      {`**`, `**`},
		FormatWiki:     {`'''`, `'''`},
		FormatMarkdown: {`**`, `**`},
	},
	KindLink: {
		FormatText: {`<`, `>`},
	},
}

const (
	htmlDetails  = `<span class="details">(<a href='{{.Link}}#{{.Anchor}}'>{{.Nick}}</a>, {{.Time}})</span>`
	plainDetails = `({{.Nick}}, {{.Time}})`
	mdDetails    = `([{{.Nick}}]({{.Link}}#{{.Anchor}}), {{.Time}})`
	lineSuffix   = `{{if .Line}} {{.Line}}{{end}}`
)

// defaultLayout keys the template used by kinds without an override.
const defaultLayout = KindVote + 1

var layoutSources = map[Format]map[Kind]string{
	FormatHTMLLog: {
		defaultLayout: `<tr><td><a href='{{.Link}}#{{.Anchor}}'>{{.Time}}</a></td><td>{{.ItemType}}</td><td>{{.Nick}}</td><td>{{.Start}}{{.Line}}{{.End}}</td></tr>`,
		KindTopic:     `<tr><td><a href='{{.Link}}#{{.Anchor}}'>{{.Time}}</a></td><th colspan=3>{{.Start}}Topic: {{.Topic}}{{.End}}</th></tr>`,
		KindLink:      `<tr><td><a href='{{.Link}}#{{.Anchor}}'>{{.Time}}</a></td><td>{{.ItemType}}</td><td>{{.Nick}}</td><td>{{.Start}}<a href="{{.URLQuoteEscaped}}">{{.URL}}</a>{{.End}}` + lineSuffix + `</td></tr>`,
	},
	FormatHTML: {
		defaultLayout: `<i class="{{.ItemType}}">{{.ItemType}}</i>: {{.Start}}{{.Line}}{{.End}} ` + htmlDetails,
		KindInfo:      `{{.Start}}{{.Line}}{{.End}} ` + htmlDetails,
		KindTopic:     `{{.Start}}{{.Topic}}{{.End}} ` + htmlDetails,
		KindLink:      `<i class="{{.ItemType}}">{{.ItemType}}</i>: {{.Start}}<a href="{{.URLQuoteEscaped}}">{{.URL}}</a>{{.End}}` + lineSuffix + ` ` + htmlDetails,
	},
	FormatText: {
		defaultLayout: `{{.ItemType}}: {{.Start}}{{.Line}}{{.End}}  ` + plainDetails,
		KindInfo:      `{{.Start}}{{.Line}}{{.End}}  ` + plainDetails,
		KindTopic:     `{{.Start}}{{.Topic}}{{.End}}  ` + plainDetails,
		KindLink:      `{{.ItemType}}: {{.Start}}{{.URL}}{{.End}}` + lineSuffix + `  ` + plainDetails,
	},
	FormatRST: {
		defaultLayout: `*{{.ItemType}}*: {{.Start}}{{.Line}}{{.End}}  ({{.RSTRef}}_)`,
		KindInfo:      `{{.Start}}{{.Line}}{{.End}}  ({{.RSTRef}}_)`,
		KindTopic:     `{{.Start}}{{.Topic}}{{.End}}  ({{.RSTRef}}_)`,
		KindLink:      `*{{.ItemType}}*: {{.Start}}{{.URL}}{{.End}}` + lineSuffix + `  ({{.RSTRef}}_)`,
	},
	FormatWiki: {
		defaultLayout: `''{{.ItemType}}:'' {{.Start}}{{.Line}}{{.End}}  ` + plainDetails,
		KindInfo:      `{{.Start}}{{.Line}}{{.End}}  ` + plainDetails,
		KindTopic:     `{{.Start}}{{.Topic}}{{.End}}  ` + plainDetails,
		KindLink:      `''{{.ItemType}}:'' {{.Start}}{{.URL}}{{.End}}` + lineSuffix + `  ` + plainDetails,
	},
	FormatMarkdown: {
		defaultLayout: `**{{.ItemType}}**: {{.Start}}{{.Line}}{{.End}} ` + mdDetails,
		KindInfo:      `{{.Start}}{{.Line}}{{.End}} ` + mdDetails,
		KindTopic:     `{{.Start}}{{.Topic}}{{.End}} ` + mdDetails,
		KindLink:      `**{{.ItemType}}**: {{.Start}}[{{.URL}}]({{.URLQuoteEscaped}}){{.End}}` + lineSuffix + ` ` + mdDetails,
	},
}

var layouts = compileLayouts()

func compileLayouts() map[Format]map[Kind]*tmpl.Template {
	out := make(map[Format]map[Kind]*tmpl.Template, len(layoutSources))
	for format, byKind := range layoutSources {
		out[format] = make(map[Kind]*tmpl.Template, len(byKind))
		for kind, src := range byKind {
			out[format][kind] = tmpl.MustCompile(format.String()+"/"+kind.String(), src)
		}
	}
	return out
}

func layoutFor(kind Kind, format Format) (*tmpl.Template, error) {
	byKind, ok := layouts[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %d", format)
	}
	if t, ok := byKind[kind]; ok {
		return t, nil
	}
	return byKind[defaultLayout], nil
}

// Render produces one line of output for the item in the given format.
// Free text (nick, line, topic, URL) is escaped; time, anchor and link are not.
// Rendering RST allocates the item's reference in rc.Refs on first use.
func Render(it *Item, format Format, rc RenderContext) (string, error) {
	layout, err := layoutFor(it.Kind, format)
	if err != nil {
		return "", err
	}

	escape := rc.Escape
	if escape == nil {
		escape = DefaultEscaper(format)
	}

	m := markups[it.Kind][format]
	f := fields{
		ItemType: it.Kind.String(),
		Nick:     escape(it.Nick),
		Line:     escape(it.Line),
		URL:      escape(it.URL),
		Time:     it.Time,
		Link:     rc.LogURL,
		Anchor:   it.Anchor(),
		Start:    m.start,
		End:      m.end,
	}
	if it.Kind == KindTopic {
		f.Topic = escape(it.Line)
		if format == FormatRST {
			f.Topic = escape(it.topicText())
		}
	}
	if it.URL != "" {
		f.URLQuoteEscaped = escape(strings.ReplaceAll(it.URL, `"`, "%22"))
	}

	if format == FormatRST {
		if rc.Refs == nil {
			return "", ErrNoRefRegistry
		}
		f.RSTRef = rc.Refs.Allocate(it, rc.LogURL)
	}

	return layout.Execute(f)
}
