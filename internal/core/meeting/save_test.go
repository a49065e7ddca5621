package meeting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) writer(ext, text string) Writer {
	return WriterFunc(func(s *Session) (Result, error) {
		r.calls = append(r.calls, ext)
		return Result{Text: text}, nil
	})
}

func TestSaveOrderingAndRealtime(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSession(t, "#meetbot-test", func(o *Options) {
		o.Writers = []WriterEntry{
			{Extension: ".html", Writer: rec.writer(".html", "<html>"), Realtime: true},
			{Extension: ".txt", Writer: rec.writer(".txt", "minutes")},
			{Extension: ".none.debug", Writer: rec.writer(".none.debug", "ignored"), Realtime: true},
			{Extension: ".log.txt", Writer: rec.writer(".log.txt", "raw"), Realtime: true},
		}
	})

	written, err := s.Save(true)
	require.NoError(t, err)
	assert.Nil(t, written, "realtime save before start is a no-op")
	assert.Empty(t, rec.calls)

	s.startTime = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	written, err = s.Save(true)
	require.NoError(t, err)
	assert.Equal(t, []string{".log.txt", ".html", ".none.debug"}, rec.calls)
	assert.Equal(t, map[string]string{
		".log.txt":    "raw",
		".html":       "<html>",
		".none.debug": "ignored",
	}, written)

	base := filepath.Join(s.opts.LogDir, "meetbot-test", "meetbot-test")
	assert.FileExists(t, base+".log.txt")
	assert.FileExists(t, base+".html")
	assert.NoFileExists(t, base+".txt")

	rec.calls = nil
	written, err = s.Save(false)
	require.NoError(t, err)
	assert.Equal(t, []string{".log.txt", ".html", ".txt", ".none.debug"}, rec.calls)
	assert.Len(t, written, 4)

	data, err := os.ReadFile(base + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "minutes", string(data))
	assert.NoFileExists(t, base+".none.debug")
}

func TestSaveBeforeStart(t *testing.T) {
	s, _ := newTestSession(t, "#dev", nil)
	_, err := s.Save(false)
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestSaveHandledResultsAreNotWritten(t *testing.T) {
	called := false
	s, _ := newTestSession(t, "#meetbot-test", func(o *Options) {
		o.Writers = []WriterEntry{{
			Extension: ".summary",
			Writer: WriterFunc(func(*Session) (Result, error) {
				called = true
				return Result{Handled: true}, nil
			}),
		}}
	})
	s.startTime = time.Now()

	written, err := s.Save(false)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, written)
}

func TestSaveRestrictLogs(t *testing.T) {
	rec := &recorder{}
	s, tr := newTestSession(t, "#meetbot-test", func(o *Options) {
		o.Writers = []WriterEntry{{Extension: ".txt", Writer: rec.writer(".txt", "x")}}
	})
	c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	feed(t, s, c, "alice: #startmeeting", "alice: #restrictlogs", "alice: #save")

	assert.True(t, tr.hasReply("Restricting permissions on minutes: -077 on next #save"))

	info, err := os.Stat(filepath.Join(s.opts.LogDir, "meetbot-test", "meetbot-test.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveWriteErrorPropagates(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSession(t, "#meetbot-test", func(o *Options) {
		o.Writers = []WriterEntry{{Extension: ".txt", Writer: rec.writer(".txt", "x"), Realtime: true}}
	})

	// A regular file where the channel directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(s.opts.LogDir, "meetbot-test"), nil, 0o644))

	start := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	err := s.Process("alice", "#startmeeting", start)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meetbot-test.txt")
}

func TestEndMeetingSaveFailureKeepsMeetingOpen(t *testing.T) {
	rec := &recorder{}
	s, _ := newTestSession(t, "#meetbot-test", func(o *Options) {
		o.Writers = []WriterEntry{{Extension: ".txt", Writer: rec.writer(".txt", "x")}}
	})
	start := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Process("alice", "#startmeeting", start))

	require.NoError(t, os.WriteFile(filepath.Join(s.opts.LogDir, "meetbot-test"), nil, 0o644))
	require.Error(t, s.Process("alice", "#endmeeting", start.Add(time.Minute)))
	assert.False(t, s.IsOver())
	assert.True(t, s.EndTime().IsZero())
}
