package minutes

import (
	"github.com/rs/zerolog"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

// Summary logs a structured digest of the meeting instead of producing a
// file.
type Summary struct {
	Logger zerolog.Logger
}

func (w Summary) Format(s *meeting.Session) (meeting.Result, error) {
	d, err := newDigest(s)
	if err != nil {
		return meeting.Result{}, err
	}

	counts := zerolog.Dict()
	for kind, n := range countKinds(d.Items) {
		counts = counts.Int(kind, n)
	}

	w.Logger.Info().
		Str("channel", s.Channel()).
		Str("network", s.Network()).
		Str("title", d.Title).
		Str("start", d.Start).
		Str("end", d.End).
		Strs("chairs", d.Chairs).
		Int("attendees", len(d.Attendees)).
		Int("lines", len(s.Lines())).
		Dict("items", counts).
		Int("actions_unassigned", len(d.Unassigned)).
		Msg("meeting summary")

	return meeting.Result{Handled: true}, nil
}

func countKinds(items []*meeting.Item) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[it.Kind.String()]++
	}
	return out
}
