package meeting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	replies []string
	topics  []string
}

func (f *fakeTransport) SendReply(text string) { f.replies = append(f.replies, text) }
func (f *fakeTransport) SetTopic(text string)  { f.topics = append(f.topics, text) }

func (f *fakeTransport) hasReply(prefix string) bool {
	for _, r := range f.replies {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

type listingTransport struct {
	fakeTransport
	nicks []string
}

func (l *listingTransport) ChannelNicks() []string { return l.nicks }

// clock hands out increasing timestamps one minute apart.
type clock struct{ t time.Time }

func (c *clock) next() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func feed(t *testing.T, s *Session, c *clock, lines ...string) {
	t.Helper()
	for _, l := range lines {
		nick, text, ok := strings.Cut(l, ": ")
		require.True(t, ok, "bad test line %q", l)
		require.NoError(t, s.Process(nick, text, c.next()))
	}
}

func startedSession(t *testing.T) (*Session, *fakeTransport, *clock) {
	t.Helper()
	s, tr := newTestSession(t, "#dev", nil)
	c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	feed(t, s, c, "alice: #startmeeting Sync")
	return s, tr, c
}

func TestProcessStartMeeting(t *testing.T) {
	s, tr, _ := startedSession(t)

	assert.Equal(t, time.Date(2024, 1, 2, 10, 1, 0, 0, time.UTC), s.StartTime())
	assert.Equal(t, "Sync", s.MeetingTopic())
	assert.Equal(t, "sync", s.MeetingName())
	assert.Equal(t, []string{"Meeting topic: Sync"}, tr.topics)
	require.NotEmpty(t, tr.replies)
	assert.Equal(t, "Meeting started Tue Jan  2 10:01:00 2024 UTC and is due to finish in 60 minutes.  "+
		"The chair is alice. Information about MeetBot at "+DefaultInfoURL+".", tr.replies[0])
	assert.True(t, tr.hasReply("Useful Commands: #action"))
	assert.True(t, tr.hasReply("The meeting name has been set to 'sync'"))
}

func TestProcessItemsAndChairs(t *testing.T) {
	s, tr, c := startedSession(t)

	feed(t, s, c,
		"alice: #topic Intro",
		"bob: #action write docs",
		"carol: #agreed ship it",
		"alice: #chair bob, carol",
		"carol: #agreed ship it",
		"dave: https://example.org/notes the notes",
		"bob: #info fyi",
	)

	minutes := s.Minutes()
	require.Len(t, minutes, 5)
	assert.Equal(t, KindTopic, minutes[0].Kind)
	assert.Equal(t, "Intro", minutes[0].Line)
	assert.Equal(t, KindAction, minutes[1].Kind)
	assert.Equal(t, KindAgreed, minutes[2].Kind)
	assert.Equal(t, "carol", minutes[2].Nick)
	assert.Equal(t, KindLink, minutes[3].Kind)
	assert.Equal(t, "https://example.org/notes", minutes[3].URL)
	assert.Equal(t, KindInfo, minutes[4].Kind)

	assert.Equal(t, "Intro (Meeting topic: Sync)", tr.topics[len(tr.topics)-1])
	assert.Equal(t, []string{"alice", "bob", "carol"}, s.Chairs())
	assert.True(t, tr.hasReply("Current chairs: alice bob carol"))
	assert.Equal(t, "Intro", s.CurrentTopic())
}

func TestProcessUnchairKeepsOwner(t *testing.T) {
	s, _, c := startedSession(t)
	feed(t, s, c,
		"alice: #chair bob",
		"bob: #unchair alice bob",
	)
	assert.Equal(t, []string{"alice"}, s.Chairs())
	assert.True(t, s.IsChair("alice"))
	assert.False(t, s.IsChair("bob"))
}

func TestProcessChairWarnsAboutAbsentNick(t *testing.T) {
	opts := DefaultOptions()
	opts.LogDir = t.TempDir()
	tr := &listingTransport{nicks: []string{"alice", "bob"}}
	s := New(Params{Channel: "#dev", Owner: "alice", Transport: tr}, opts)
	c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}

	feed(t, s, c, "alice: #startmeeting", "alice: #chair bob zed")
	assert.True(t, tr.hasReply("Warning: Nick not in channel: zed"))
	assert.False(t, tr.hasReply("Warning: Nick not in channel: bob"))
	assert.Equal(t, []string{"alice", "bob", "zed"}, s.Chairs())
}

func TestProcessVote(t *testing.T) {
	s, tr, c := startedSession(t)

	feed(t, s, c, "bob: #startvote Continue? yes, no")
	assert.Nil(t, s.Vote())
	assert.True(t, tr.hasReply("Only the meeting chair may start a vote."))

	feed(t, s, c,
		"alice: #startvote Continue? yes, no",
		"alice: #startvote Other?",
		"bob: #vote no",
		"carol: #vote No",
		"dave: #vote maybe",
		"alice: #showvote",
	)
	assert.True(t, tr.hasReply("Begin voting on: Continue? Valid vote options are yes, no."))
	assert.True(t, tr.hasReply("Already voting on 'Continue'"))
	assert.True(t, tr.hasReply("dave: maybe is not a valid option. Valid options are yes, no."))
	assert.True(t, tr.hasReply("no (2): bob, carol"))
	assert.Contains(t, tr.replies, "yes (0)")

	feed(t, s, c, "alice: #endvote")
	assert.Nil(t, s.Vote())
	minutes := s.Minutes()
	require.Len(t, minutes, 1)
	assert.Equal(t, KindVote, minutes[0].Kind)
	assert.Equal(t, `Voted on "Continue?" Results are yes: 0, no: 2`, minutes[0].Line)
}

func TestProcessVoteQuestionKeptVerbatim(t *testing.T) {
	s, tr, c := startedSession(t)

	feed(t, s, c,
		`alice: #startvote Use "tabs" \ or not? yes, no`,
		"bob: #vote no",
		"alice: #endvote",
	)

	want := `Voted on "Use "tabs" \ or not?" Results are`
	minutes := s.Minutes()
	require.Len(t, minutes, 1)
	assert.Equal(t, want+" yes: 0, no: 1", minutes[0].Line)
	assert.Contains(t, tr.replies, want)
}

func TestProcessChairOnlyCommandsIgnoreNonChairs(t *testing.T) {
	type state struct {
		lines        []string
		chairs       []string
		currentTopic string
		meetingTopic string
		vote         string
		lurking      bool
		restrict     bool
		over         bool
	}
	snapshot := func(s *Session) state {
		st := state{
			chairs:       s.Chairs(),
			currentTopic: s.CurrentTopic(),
			meetingTopic: s.MeetingTopic(),
			lurking:      s.Lurking(),
			restrict:     s.restrictLogs,
			over:         s.IsOver(),
		}
		for _, m := range s.Minutes() {
			st.lines = append(st.lines, m.Line)
		}
		if v := s.Vote(); v != nil {
			st.vote = v.Question + " " + v.Summary()
		}
		return st
	}

	commands := []string{
		"#topic Hijack",
		"#meetingtopic Hijack",
		"#chair mallory",
		"#unchair carol",
		"#endvote",
		"#lurk",
		"#restrictlogs",
		"#save",
	}

	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			fullSaves := 0
			s, _ := newTestSession(t, "#dev", func(o *Options) {
				o.Writers = []WriterEntry{{
					Extension: ".txt",
					Writer: WriterFunc(func(*Session) (Result, error) {
						fullSaves++
						return Result{Text: "minutes"}, nil
					}),
				}}
			})
			c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
			feed(t, s, c,
				"alice: #startmeeting Sync",
				"alice: #chair carol",
				"alice: #topic Intro",
				"alice: #info kickoff",
				"alice: #startvote Continue? yes, no",
				"carol: #vote yes",
			)
			before := snapshot(s)

			feed(t, s, c, "bob: "+cmd)

			assert.Equal(t, before, snapshot(s))
			assert.Zero(t, fullSaves)
		})
	}
}

func TestProcessVoteWithoutOpenVote(t *testing.T) {
	s, tr, c := startedSession(t)
	n := len(tr.replies)
	feed(t, s, c, "bob: #vote yes", "alice: #showvote", "alice: #endvote")
	assert.Len(t, tr.replies, n)
	assert.Empty(t, s.Minutes())
}

func TestProcessUndo(t *testing.T) {
	s, tr, c := startedSession(t)
	feed(t, s, c,
		"bob: #idea tabs",
		"bob: #idea spaces",
		"bob: #undo",
	)
	require.Len(t, s.Minutes(), 2)

	feed(t, s, c, "alice: #undo")
	require.Len(t, s.Minutes(), 1)
	assert.Equal(t, "tabs", s.Minutes()[0].Line)
	assert.True(t, tr.hasReply("Removing item from minutes: IDEA: spaces"))
}

func TestProcessLurk(t *testing.T) {
	s, tr, c := startedSession(t)
	feed(t, s, c, "alice: #lurk")
	n, topics := len(tr.replies), len(tr.topics)

	feed(t, s, c, "alice: #topic Quiet", "alice: #commands")
	assert.Len(t, tr.replies, n)
	assert.Len(t, tr.topics, topics)
	assert.True(t, s.Lurking())

	feed(t, s, c, "alice: #unlurk", "alice: #commands")
	assert.True(t, tr.hasReply("Available commands: #accept #accepted"))
}

func TestProcessRawLog(t *testing.T) {
	s, _, c := startedSession(t)
	feed(t, s, c, "bob: \x01ACTION waves\x01", "bob: hello  ")

	lines := s.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, "10:01:00 <alice> #startmeeting Sync", lines[0])
	assert.Equal(t, "10:02:00 * bob waves", lines[1])
	assert.Equal(t, "10:03:00 <bob> hello", lines[2])

	assert.Equal(t, []Attendee{{Nick: "alice", Lines: 1}, {Nick: "bob", Lines: 2}}, s.Attendees())
}

func TestProcessLogsBotReplies(t *testing.T) {
	s, _ := newTestSession(t, "#dev", func(o *Options) { o.BotNick = "meetbot" })
	c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	feed(t, s, c, "alice: #startmeeting")

	lines := s.Lines()
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "10:01:00 <meetbot> Meeting started"))
}

func TestProcessNickAndMeetingName(t *testing.T) {
	s, _, c := startedSession(t)
	feed(t, s, c,
		"alice: #nick erin, frank",
		"bob: #meetingname Weekly  Team/Sync!",
	)
	assert.Equal(t, "weekly_team_sync_", s.MeetingName())

	var nicks []string
	for _, a := range s.Attendees() {
		nicks = append(nicks, a.Nick)
	}
	assert.Equal(t, []string{"alice", "erin", "frank", "bob"}, nicks)
}

func TestProcessMeetingTopicClear(t *testing.T) {
	s, tr, c := startedSession(t)
	feed(t, s, c, "alice: #topic Budget", "alice: #meetingtopic none")
	assert.Empty(t, s.MeetingTopic())
	assert.Equal(t, "Budget", tr.topics[len(tr.topics)-1])
}

func TestProcessEndMeeting(t *testing.T) {
	s, tr := newTestSession(t, "#dev", nil)
	s.oldTopic = "Welcome to #dev"
	c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	feed(t, s, c, "alice: #startmeeting", "bob: #endmeeting")
	assert.False(t, s.IsOver(), "non-chair cannot end early")

	feed(t, s, c, "alice: #endmeeting")
	assert.True(t, s.IsOver())
	assert.Equal(t, time.Date(2024, 1, 2, 10, 3, 0, 0, time.UTC), s.EndTime())
	assert.Equal(t, "Welcome to #dev", tr.topics[len(tr.topics)-1])
	assert.True(t, tr.hasReply("Meeting ended Tue Jan  2 10:03:00 2024 UTC."))
	assert.True(t, tr.hasReply("Minutes:        dev/2024/dev.2024-01-02-10.01.html"))

	n := len(s.Lines())
	require.NoError(t, s.Process("bob", "#info late", c.next()))
	assert.Len(t, s.Lines(), n, "lines after the end are ignored")
}

func TestProcessEndMeetingAfterLength(t *testing.T) {
	s, _ := newTestSession(t, "#dev", func(o *Options) { o.Length = 30 * time.Minute })
	start := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Process("alice", "#startmeeting", start))

	require.NoError(t, s.Process("bob", "#endmeeting", start.Add(29*time.Minute)))
	assert.False(t, s.IsOver())

	require.NoError(t, s.Process("bob", "#endmeeting", start.Add(30*time.Minute)))
	assert.True(t, s.IsOver())
}

func TestProcessIgnoresCommandsBeforeStart(t *testing.T) {
	s, tr := newTestSession(t, "#dev", nil)
	c := &clock{t: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)}
	feed(t, s, c, "bob: #startmeeting", "alice: #endmeeting")
	assert.True(t, s.StartTime().IsZero())
	assert.False(t, s.IsOver())
	assert.Empty(t, tr.replies)
}
