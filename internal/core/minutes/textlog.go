package minutes

import (
	"strings"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

// TextLog writes the raw log, one line per chat line.
type TextLog struct{}

func (TextLog) Format(s *meeting.Session) (meeting.Result, error) {
	lines := s.Lines()
	if len(lines) == 0 {
		return meeting.Result{}, nil
	}
	return meeting.Result{Text: strings.Join(lines, "\n") + "\n"}, nil
}
