package meeting

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, channel string, mutate func(*Options)) (*Session, *fakeTransport) {
	t.Helper()
	opts := DefaultOptions()
	opts.LogDir = t.TempDir()
	if mutate != nil {
		mutate(&opts)
	}
	tr := &fakeTransport{}
	s := New(Params{
		Channel:   channel,
		Network:   "Libera",
		Owner:     "alice",
		Transport: tr,
		Created:   time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	}, opts)
	return s, tr
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		mutate  func(*Options)
		setup   func(*Session)
		want    string
		wantURL string
	}{
		{
			name:    "default pattern uses creation time before start",
			channel: "#Dev",
			want:    "dev/2024/dev.2024-01-02-09.00",
			wantURL: "https://logs.example.org/dev/2024/dev.2024-01-02-09.00",
		},
		{
			name:    "start time wins once started",
			channel: "#dev",
			setup: func(s *Session) {
				s.startTime = time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)
			},
			want:    "dev/2024/dev.2024-03-04-15.30",
			wantURL: "https://logs.example.org/dev/2024/dev.2024-03-04-15.30",
		},
		{
			name:    "special channel",
			channel: "#meetbot-test",
			want:    "meetbot-test/meetbot-test",
			wantURL: "https://logs.example.org/meetbot-test/meetbot-test",
		},
		{
			name:    "special channel glob",
			channel: "#team-a",
			mutate: func(o *Options) {
				o.SpecialChannels = []string{"#team-*"}
			},
			want:    "team-a/team-a",
			wantURL: "https://logs.example.org/team-a/team-a",
		},
		{
			name:    "meeting name and network",
			channel: "#dev",
			mutate: func(o *Options) {
				o.FilenamePattern = "{{ .Network }}/{{ .MeetingName }}"
			},
			setup: func(s *Session) {
				s.meetingName = "weekly_sync"
			},
			want:    "libera/weekly_sync",
			wantURL: "https://logs.example.org/libera/weekly_sync",
		},
		{
			name:    "percent in channel is literal",
			channel: "#100%",
			mutate: func(o *Options) {
				o.FilenamePattern = "{{ .Channel }}-%Y"
			},
			want:    "100%-2024",
			wantURL: "https://logs.example.org/100%-2024",
		},
		{
			name:    "slashes are removed",
			channel: "#a/b",
			mutate: func(o *Options) {
				o.FilenamePattern = "{{ .Channel }}"
			},
			want:    "ab",
			wantURL: "https://logs.example.org/ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, tt.channel, func(o *Options) {
				o.URLPrefix = "https://logs.example.org/"
				if tt.mutate != nil {
					tt.mutate(o)
				}
			})
			if tt.setup != nil {
				tt.setup(s)
			}

			got, err := s.BaseName(false)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(s.opts.LogDir, tt.want), got)

			gotURL, err := s.BaseName(true)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, gotURL)
		})
	}
}

func TestBaseNameOverride(t *testing.T) {
	s, _ := newTestSession(t, "#dev", func(o *Options) {
		o.Filename = "/tmp/replay/meeting"
	})

	got, err := s.BaseName(false)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/replay/meeting", got)

	logURL, err := s.LogURL()
	require.NoError(t, err)
	assert.Equal(t, "meeting.log.html", logURL)
}

func TestBaseNameBadPattern(t *testing.T) {
	s, _ := newTestSession(t, "#dev", func(o *Options) {
		o.FilenamePattern = "{{ .Missing }}"
	})
	_, err := s.BaseName(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filename pattern")
}
