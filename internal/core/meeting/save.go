package meeting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aliceinwire/meetbot2/pkg/fsutil"
)

// RawLogExtension is the extension of the plain text log. Its writer always
// runs first.
const RawLogExtension = ".log.txt"

// Result is the output of one writer. A Handled result has already been
// delivered by the writer and is not written to disk.
type Result struct {
	Text    string
	Handled bool
}

// Writer renders a session into one artifact.
type Writer interface {
	Format(s *Session) (Result, error)
}

// WriterFunc adapts a function to the Writer interface.
type WriterFunc func(s *Session) (Result, error)

func (f WriterFunc) Format(s *Session) (Result, error) { return f(s) }

// WriterEntry binds a writer to the extension it produces.
type WriterEntry struct {
	Extension string
	Writer    Writer
	Realtime  bool // also run after every processed line
}

// Suppressed reports whether a writer with extension ext produces no file.
func Suppressed(ext string) bool {
	return ext == "." || strings.HasPrefix(ext, ".none")
}

// orderedWriters returns the configured writers with the raw log first.
func (s *Session) orderedWriters() []WriterEntry {
	entries := slices.Clone(s.opts.Writers)
	slices.SortStableFunc(entries, func(a, b WriterEntry) int {
		switch {
		case a.Extension == RawLogExtension && b.Extension != RawLogExtension:
			return -1
		case b.Extension == RawLogExtension && a.Extension != RawLogExtension:
			return 1
		}
		return 0
	})
	return entries
}

// Save runs the writers and writes their output next to the base name. A
// realtime save only runs realtime writers and does nothing before the
// meeting started. It returns the rendered text keyed by extension, including
// the output of writers whose extension suppresses the file.
func (s *Session) Save(realtime bool) (map[string]string, error) {
	if s.startTime.IsZero() {
		if realtime {
			return nil, nil
		}
		return nil, ErrNotStarted
	}

	base, err := s.BaseName(false)
	if err != nil {
		return nil, err
	}

	restrict := s.opts.RestrictPerm
	if !s.restrictLogs {
		restrict = 0
	}

	out := make(map[string]string)
	written := 0
	for _, entry := range s.orderedWriters() {
		if realtime && !entry.Realtime {
			continue
		}

		res, err := entry.Writer.Format(s)
		if err != nil {
			return out, fmt.Errorf("format %s: %w", entry.Extension, err)
		}
		if res.Handled {
			continue
		}
		out[entry.Extension] = res.Text
		if Suppressed(entry.Extension) {
			continue
		}

		path := base + entry.Extension
		if err := fsutil.WriteFile(path, res.Text, restrict); err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("write minutes")
			return out, fmt.Errorf("write %s: %w", path, err)
		}
		written++
	}

	s.log.Debug().Bool("realtime", realtime).Int("files", written).Str("base", base).Msg("saved")
	return out, nil
}
