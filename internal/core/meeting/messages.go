package meeting

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

// Replacements are the values available to the start and end message templates.
type Replacements struct {
	Channel   string
	Network   string
	InfoURL   string
	TimeZone  string
	StartTime string
	EndTime   string
	Length    int // minutes
	Chair     string
	URLBase   string
	BaseName  string
	Version   string
	Vars      map[string]any // user values from configuration
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "None"
	}
	return t.Format(time.ANSIC)
}

// Replacements returns the current message template values.
func (s *Session) Replacements() (Replacements, error) {
	urlBase, err := s.BaseName(true)
	if err != nil {
		return Replacements{}, err
	}
	base, err := s.BaseName(false)
	if err != nil {
		return Replacements{}, err
	}
	return Replacements{
		Channel:   s.channel,
		Network:   s.network,
		InfoURL:   s.opts.InfoURL,
		TimeZone:  s.opts.Location.String(),
		StartTime: formatTimestamp(s.startTime),
		EndTime:   formatTimestamp(s.endTime),
		Length:    int(s.opts.Length / time.Minute),
		Chair:     s.owner,
		URLBase:   urlBase,
		BaseName:  filepath.Base(base),
		Version:   s.opts.Version,
		Vars:      s.opts.Vars,
	}, nil
}

// announce renders a message template and sends it one line per reply.
func (s *Session) announce(message string) {
	repl, err := s.Replacements()
	if err != nil {
		s.log.Error().Err(err).Msg("build message replacements")
		return
	}
	text, err := tmpl.Render(message, repl)
	if err != nil {
		s.log.Error().Err(err).Msg("render message template")
		return
	}
	for _, line := range strings.Split(text, "\n") {
		s.reply(line)
	}
}
