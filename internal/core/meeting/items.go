// Package meeting implements the meeting state machine: raw log, chairs, votes,
// minute items and the rendering of those items into the supported output formats.
package meeting

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a minute item.
type Kind int

const (
	KindTopic Kind = iota
	KindAction
	KindInfo
	KindIdea
	KindHelp
	KindLink
	KindAgreed
	KindAccepted
	KindRejected
	KindVote
)

var kindTags = [...]string{
	KindTopic:    "TOPIC",
	KindAction:   "ACTION",
	KindInfo:     "INFO",
	KindIdea:     "IDEA",
	KindHelp:     "HELP",
	KindLink:     "LINK",
	KindAgreed:   "AGREED",
	KindAccepted: "ACCEPTED",
	KindRejected: "REJECTED",
	KindVote:     "VOTE",
}

// String returns the upper case item type tag, e.g. "ACTION".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return "UNKNOWN"
	}
	return kindTags[k]
}

// urlSchemes are the prefixes that turn a plain chat line into a link item.
var urlSchemes = []string{"http:", "https:", "irc:", "ftp:", "mailto:", "ssh:"}

// HasURLScheme reports whether s starts with one of the recognized URL schemes.
func HasURLScheme(s string) bool {
	lower := strings.ToLower(s)
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// Item is a single entry in the meeting minutes. Items are created by command
// handlers and never modified afterwards.
type Item struct {
	Kind    Kind
	Nick    string
	Line    string // free text payload; the topic text for KindTopic
	URL     string // KindLink only
	LineNum int    // 1-based position of the originating line in the raw log
	Time    string // HH:MM:SS
}

// NewItem builds an item of the given kind. For links the leading URL is split
// off the line.
func NewItem(kind Kind, nick, line string, lineNum int, t time.Time) *Item {
	it := &Item{
		Kind:    kind,
		Nick:    nick,
		Line:    strings.TrimSpace(line),
		LineNum: lineNum,
		Time:    t.Format(timeLayout),
	}
	if kind == KindLink {
		it.URL, it.Line = splitLink(it.Line)
	}
	return it
}

func splitLink(line string) (url, rest string) {
	if !HasURLScheme(line) {
		return "", line
	}
	url, rest, _ = strings.Cut(line, " ")
	return url, strings.TrimSpace(rest)
}

// Anchor is the fragment identifier of the raw log line that produced the item.
func (it *Item) Anchor() string {
	return "l-" + strconv.Itoa(it.LineNum)
}

// String renders the item as plain text without escaping.
func (it *Item) String() string {
	s, err := Render(it, FormatText, RenderContext{Escape: EscapeText})
	if err != nil {
		return it.Kind.String() + ": " + it.Line
	}
	return s
}

// Topics that are empty still need some text so RST bold markup stays valid.
func (it *Item) topicText() string {
	if it.Line == "" {
		return " "
	}
	return it.Line
}
