// Package minutes implements the writers that turn a meeting session into
// artifacts: raw logs, HTML pages and minutes in several markup formats.
package minutes

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

// Writer kinds selectable from configuration.
const (
	KindTextLog   = "textlog"
	KindHTMLLog   = "htmllog"
	KindHTML      = "html"
	KindText      = "text"
	KindRST       = "rst"
	KindHTMLTable = "htmltable"
	KindMediaWiki = "mediawiki"
	KindMarkdown  = "markdown"
	KindSummary   = "summary"
)

type kindInfo struct {
	extension string
	realtime  bool
	build     func(log zerolog.Logger) meeting.Writer
}

var kinds = map[string]kindInfo{
	KindTextLog:   {meeting.RawLogExtension, true, func(zerolog.Logger) meeting.Writer { return TextLog{} }},
	KindHTMLLog:   {".log.html", true, func(zerolog.Logger) meeting.Writer { return HTMLLog{} }},
	KindHTML:      {".html", true, func(zerolog.Logger) meeting.Writer { return HTML{} }},
	KindText:      {".txt", false, func(zerolog.Logger) meeting.Writer { return RST{} }},
	KindRST:       {".rst", false, func(zerolog.Logger) meeting.Writer { return RST{} }},
	KindHTMLTable: {".table.html", false, func(zerolog.Logger) meeting.Writer { return HTMLTable{} }},
	KindMediaWiki: {".mw", false, func(zerolog.Logger) meeting.Writer { return MediaWiki{} }},
	KindMarkdown:  {".md", false, func(zerolog.Logger) meeting.Writer { return Markdown{} }},
	KindSummary:   {".none.summary", false, func(log zerolog.Logger) meeting.Writer { return Summary{Logger: log} }},
}

// Kinds returns the known writer kinds, sorted.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsKind reports whether kind names a writer.
func IsKind(kind string) bool {
	_, ok := kinds[kind]
	return ok
}

// Spec selects a writer. Zero values take the kind's defaults.
type Spec struct {
	Kind      string
	Extension string
	Realtime  *bool
}

// Defaults returns the writers used when none are configured.
func Defaults(rawLog bool) []Spec {
	specs := []Spec{{Kind: KindHTMLLog}, {Kind: KindHTML}, {Kind: KindText}}
	if rawLog {
		specs = append([]Spec{{Kind: KindTextLog}}, specs...)
	}
	return specs
}

// Build resolves a spec into a writer entry.
func Build(spec Spec, log zerolog.Logger) (meeting.WriterEntry, error) {
	info, ok := kinds[spec.Kind]
	if !ok {
		return meeting.WriterEntry{}, fmt.Errorf("unknown writer kind %q", spec.Kind)
	}

	entry := meeting.WriterEntry{
		Extension: info.extension,
		Writer:    info.build(log),
		Realtime:  info.realtime,
	}
	if spec.Extension != "" {
		entry.Extension = spec.Extension
	}
	if spec.Realtime != nil {
		entry.Realtime = *spec.Realtime
	}
	return entry, nil
}

// BuildAll resolves every spec, failing on the first unknown kind.
func BuildAll(specs []Spec, log zerolog.Logger) ([]meeting.WriterEntry, error) {
	out := make([]meeting.WriterEntry, 0, len(specs))
	for _, spec := range specs {
		entry, err := Build(spec, log)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
