package minutes

import (
	"slices"
	"strings"
	"time"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

const clockLayout = "15:04:05 MST"

// group is a topic and the items recorded while it was current. The first
// group has no topic when items were recorded before the first #topic.
type group struct {
	Topic *meeting.Item
	Items []*meeting.Item
}

// assignment is the list of action items that mention one attendee.
type assignment struct {
	Nick    string
	Actions []*meeting.Item
}

// digest is the session state every minutes writer needs, computed once per
// Format call.
type digest struct {
	Title      string
	Channel    string
	Owner      string
	Start      string
	End        string // empty while the meeting runs
	LogURL     string
	InfoURL    string
	Version    string
	Groups     []group
	Actions    []*meeting.Item
	Votes      []*meeting.Item
	ByPerson   []assignment
	Unassigned []*meeting.Item
	Attendees  []meeting.Attendee
	Chairs     []string
	Items      []*meeting.Item
}

func newDigest(s *meeting.Session) (*digest, error) {
	logURL, err := s.LogURL()
	if err != nil {
		return nil, err
	}

	items := s.Minutes()
	d := &digest{
		Title:     title(s),
		Channel:   s.Channel(),
		Owner:     s.Owner(),
		Start:     formatClock(s.StartTime(), s.Location()),
		End:       formatClock(s.EndTime(), s.Location()),
		LogURL:    logURL,
		InfoURL:   s.Options().InfoURL,
		Version:   s.Options().Version,
		Groups:    groupByTopic(items),
		Attendees: s.Attendees(),
		Chairs:    s.Chairs(),
		Items:     items,
	}

	for _, it := range items {
		switch it.Kind {
		case meeting.KindAction:
			d.Actions = append(d.Actions, it)
		case meeting.KindVote:
			d.Votes = append(d.Votes, it)
		}
	}
	d.ByPerson, d.Unassigned = assignActions(d.Actions, d.Attendees)
	return d, nil
}

func title(s *meeting.Session) string {
	if t := s.MeetingTopic(); t != "" {
		return s.Channel() + ": " + t
	}
	return s.Channel() + " Meeting"
}

func formatClock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(clockLayout)
}

func groupByTopic(items []*meeting.Item) []group {
	var groups []group
	for _, it := range items {
		if it.Kind == meeting.KindTopic {
			groups = append(groups, group{Topic: it})
			continue
		}
		if len(groups) == 0 {
			groups = append(groups, group{})
		}
		last := &groups[len(groups)-1]
		last.Items = append(last.Items, it)
	}
	return groups
}

// assignActions matches actions to attendees whose nick appears as a word in
// the action text. Actions matching nobody are returned separately.
func assignActions(actions []*meeting.Item, attendees []meeting.Attendee) ([]assignment, []*meeting.Item) {
	nicks := make([]string, 0, len(attendees))
	for _, a := range attendees {
		nicks = append(nicks, a.Nick)
	}
	slices.SortFunc(nicks, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})

	assigned := make(map[*meeting.Item]bool)
	var out []assignment
	for _, nick := range nicks {
		var mine []*meeting.Item
		for _, it := range actions {
			if mentions(it.Line, nick) {
				mine = append(mine, it)
				assigned[it] = true
			}
		}
		if len(mine) > 0 {
			out = append(out, assignment{Nick: nick, Actions: mine})
		}
	}

	var unassigned []*meeting.Item
	for _, it := range actions {
		if !assigned[it] {
			unassigned = append(unassigned, it)
		}
	}
	return out, unassigned
}

func isNickRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("_-[]\\^{}|`", r)
}

func mentions(line, nick string) bool {
	nick = strings.ToLower(nick)
	for _, word := range strings.FieldsFunc(strings.ToLower(line), func(r rune) bool { return !isNickRune(r) }) {
		if word == nick {
			return true
		}
	}
	return false
}
