package meeting

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ncruces/go-strftime"

	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

// FilenameData is available to filename patterns.
type FilenameData struct {
	Channel     string
	Network     string
	MeetingName string
}

var percentEscaper = strings.NewReplacer("%", "%%")

// BaseName returns the path all artifacts share, without extension. With url
// set the path is joined to the URL prefix instead of the log directory.
//
// The pattern is rendered as a template first and then passed through
// strftime with the meeting start time (or the creation time before start).
func (s *Session) BaseName(url bool) (string, error) {
	if s.opts.Filename != "" {
		return s.opts.Filename, nil
	}

	pattern := s.opts.FilenamePattern
	if s.isSpecialChannel() {
		pattern = s.opts.SpecialFilenamePattern
	}

	channel := strings.ReplaceAll(strings.ToLower(strings.Trim(s.channel, "# ")), "/", "")
	network := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s.network)), "/", "")
	name := channel
	if s.meetingName != "" {
		name = strings.ReplaceAll(s.meetingName, "/", "")
	}

	path, err := tmpl.Render(pattern, FilenameData{
		Channel:     percentEscaper.Replace(channel),
		Network:     percentEscaper.Replace(network),
		MeetingName: percentEscaper.Replace(name),
	})
	if err != nil {
		return "", fmt.Errorf("filename pattern: %w", err)
	}
	path = strftime.Format(path, s.baseTime())

	if url {
		if s.opts.URLPrefix == "" {
			return path, nil
		}
		return strings.TrimSuffix(s.opts.URLPrefix, "/") + "/" + path, nil
	}
	return filepath.Join(s.opts.LogDir, path), nil
}

// LogURL is the link every rendered item points back to: the basename of the
// HTML log, relative to the minutes.
func (s *Session) LogURL() (string, error) {
	base, err := s.BaseName(false)
	if err != nil {
		return "", err
	}
	return filepath.Base(base) + ".log.html", nil
}

func (s *Session) baseTime() time.Time {
	if !s.startTime.IsZero() {
		return s.startTime
	}
	return s.created
}

func (s *Session) isSpecialChannel() bool {
	for _, pattern := range s.opts.SpecialChannels {
		if ok, err := doublestar.Match(pattern, s.channel); err == nil && ok {
			return true
		}
	}
	return false
}
