package meeting

import (
	"errors"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const timeLayout = "15:04:05"

// ErrNotStarted is returned by operations that need a started meeting.
var ErrNotStarted = errors.New("meeting has not started")

// Transport delivers the bot's output to the chat.
type Transport interface {
	SendReply(text string)
	SetTopic(text string)
}

// NickLister is optionally implemented by a Transport that knows who is in
// the channel. It is only used to warn about unknown chairs.
type NickLister interface {
	ChannelNicks() []string
}

// Options is the immutable per-session configuration.
type Options struct {
	LogDir                 string
	URLPrefix              string
	FilenamePattern        string
	SpecialChannels        []string // glob patterns
	SpecialFilenamePattern string
	Filename               string // overrides the computed base path when set
	InfoURL                string
	Location               *time.Location
	StartMessage           string
	EndMessage             string
	DefaultVoteOptions     []string
	Length                 time.Duration
	RestrictPerm           os.FileMode
	Version                string
	BotNick                string // when set, bot replies are appended to the raw log
	Vars                   map[string]any
	Writers                []WriterEntry
}

const (
	DefaultFilenamePattern        = "{{ .Channel }}/%Y/{{ .Channel }}.%F-%H.%M"
	DefaultSpecialFilenamePattern = "{{ .Channel }}/{{ .Channel }}"
	DefaultInfoURL                = "https://github.com/aliceinwire/meetbot2"
	DefaultLength                 = 60 * time.Minute
	DefaultRestrictPerm           = os.FileMode(0o077)

	DefaultStartMessage = "Meeting started {{ .StartTime }} {{ .TimeZone }} " +
		"and is due to finish in {{ .Length }} minutes.  " +
		"The chair is {{ .Chair }}. Information about MeetBot at {{ .InfoURL }}.\n" +
		"Useful Commands: #action #agreed #help #info #idea #link #topic #startvote."

	DefaultEndMessage = "Meeting ended {{ .EndTime }} {{ .TimeZone }}.  " +
		"Information about MeetBot at {{ .InfoURL }} . (v {{ .Version }})\n" +
		"Minutes:        {{ .URLBase }}.html\n" +
		"Minutes (text): {{ .URLBase }}.txt\n" +
		"Log:            {{ .URLBase }}.log.html"
)

// DefaultVoteOptions are offered when #startvote lists no options.
var DefaultVoteOptions = []string{"Yes", "No"}

// DefaultSpecialChannels get a filename without date and time.
var DefaultSpecialChannels = []string{"#meetbot-test", "#meetbot-test2"}

// DefaultOptions returns options with every field set to its default and no
// writers configured.
func DefaultOptions() Options {
	return Options{
		LogDir:                 ".",
		FilenamePattern:        DefaultFilenamePattern,
		SpecialChannels:        slices.Clone(DefaultSpecialChannels),
		SpecialFilenamePattern: DefaultSpecialFilenamePattern,
		InfoURL:                DefaultInfoURL,
		Location:               time.UTC,
		StartMessage:           DefaultStartMessage,
		EndMessage:             DefaultEndMessage,
		DefaultVoteOptions:     slices.Clone(DefaultVoteOptions),
		Length:                 DefaultLength,
		RestrictPerm:           DefaultRestrictPerm,
		Version:                "dev",
	}
}

// Params identifies a new session and wires its collaborators.
type Params struct {
	Channel   string
	Network   string
	Owner     string
	OldTopic  string // channel topic before the meeting, restored at the end
	Transport Transport
	Logger    zerolog.Logger
	Created   time.Time
}

// Attendee is a nick seen during the meeting with the number of lines said.
type Attendee struct {
	Nick  string
	Lines int
}

// Session is the state of one meeting. A Session is not safe for concurrent
// use; a single goroutine must own it.
type Session struct {
	channel   string
	network   string
	owner     string
	opts      Options
	transport Transport
	log       zerolog.Logger

	chairs       []string
	attendees    []string
	lineCounts   map[string]int
	oldTopic     string
	currentTopic string
	meetingTopic string
	meetingName  string

	minutes []*Item
	lines   []string
	vote    *Vote
	refs    *RefRegistry

	created      time.Time
	startTime    time.Time
	endTime      time.Time
	lastLine     time.Time
	over         bool
	lurk         bool
	restrictLogs bool
}

// New creates a session. The owner is always a chair and can never be removed.
func New(p Params, opts Options) *Session {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if p.Created.IsZero() {
		p.Created = time.Now()
	}
	return &Session{
		channel:    p.Channel,
		network:    p.Network,
		owner:      p.Owner,
		opts:       opts,
		transport:  p.Transport,
		log:        p.Logger,
		lineCounts: make(map[string]int),
		oldTopic:   p.OldTopic,
		refs:       NewRefRegistry(),
		created:    p.Created.In(opts.Location),
	}
}

func (s *Session) Channel() string          { return s.channel }
func (s *Session) Network() string          { return s.network }
func (s *Session) Owner() string            { return s.owner }
func (s *Session) Options() Options         { return s.opts }
func (s *Session) CurrentTopic() string     { return s.currentTopic }
func (s *Session) MeetingTopic() string     { return s.meetingTopic }
func (s *Session) MeetingName() string      { return s.meetingName }
func (s *Session) StartTime() time.Time     { return s.startTime }
func (s *Session) EndTime() time.Time       { return s.endTime }
func (s *Session) Created() time.Time       { return s.created }
func (s *Session) IsOver() bool             { return s.over }
func (s *Session) Lurking() bool            { return s.lurk }
func (s *Session) Refs() *RefRegistry       { return s.refs }
func (s *Session) Location() *time.Location { return s.opts.Location }

// Minutes returns the recorded items in order.
func (s *Session) Minutes() []*Item { return slices.Clone(s.minutes) }

// Lines returns the formatted raw log.
func (s *Session) Lines() []string { return slices.Clone(s.lines) }

// Vote returns the active vote, or nil.
func (s *Session) Vote() *Vote { return s.vote }

// IsChair reports whether nick may run privileged commands.
func (s *Session) IsChair(nick string) bool {
	return nick == s.owner || slices.Contains(s.chairs, nick)
}

// Chairs returns the sorted chair list including the owner.
func (s *Session) Chairs() []string {
	out := slices.Clone(s.chairs)
	if !slices.Contains(out, s.owner) {
		out = append(out, s.owner)
	}
	slices.Sort(out)
	return out
}

// Attendees returns every nick seen, in order of first appearance.
func (s *Session) Attendees() []Attendee {
	out := make([]Attendee, 0, len(s.attendees))
	for _, nick := range s.attendees {
		out = append(out, Attendee{Nick: nick, Lines: s.lineCounts[nick]})
	}
	return out
}

// SetEndTime records the end of the meeting without ending it. Used when a
// meeting is closed administratively.
func (s *Session) SetEndTime(t time.Time) { s.endTime = t.In(s.opts.Location) }

// addNick records that nick said n more lines.
func (s *Session) addNick(nick string, n int) {
	if _, ok := s.lineCounts[nick]; !ok {
		s.attendees = append(s.attendees, nick)
	}
	s.lineCounts[nick] += n
}

// AddRawLine appends a line to the raw log without running commands and
// returns its 1-based line number.
func (s *Session) AddRawLine(nick, line string, now time.Time) int {
	s.addNick(nick, 1)
	line = strings.Trim(line, " \x01")
	s.lastLine = now
	ts := now.In(s.opts.Location).Format(timeLayout)

	var logline string
	if rest, ok := strings.CutPrefix(line, "ACTION"); ok {
		logline = ts + " * " + nick + " " + strings.TrimSpace(rest)
	} else {
		logline = ts + " <" + nick + "> " + strings.TrimSpace(line)
	}
	s.lines = append(s.lines, logline)
	return len(s.lines)
}

func (s *Session) addToMinutes(it *Item) {
	s.minutes = append(s.minutes, it)
}

// reply sends text to the channel unless the bot is lurking.
func (s *Session) reply(text string) {
	if s.lurk || s.transport == nil {
		s.log.Debug().Str("reply", text).Msg("reply suppressed")
		return
	}
	s.transport.SendReply(text)
	if s.opts.BotNick != "" {
		s.AddRawLine(s.opts.BotNick, text, s.lastLine)
	}
}

// setTopic changes the channel topic unless the bot is lurking.
func (s *Session) setTopic(text string) {
	if s.lurk || s.transport == nil {
		s.log.Debug().Str("topic", text).Msg("topic change suppressed")
		return
	}
	s.transport.SetTopic(text)
}

// applyTopic sets the channel topic from the current and umbrella topics.
func (s *Session) applyTopic() {
	topic := s.currentTopic
	switch {
	case s.meetingTopic != "" && topic != "":
		topic = topic + " (Meeting topic: " + s.meetingTopic + ")"
	case s.meetingTopic != "":
		topic = "Meeting topic: " + s.meetingTopic
	}
	s.setTopic(topic)
}

func (s *Session) channelNicks() ([]string, bool) {
	lister, ok := s.transport.(NickLister)
	if !ok {
		return nil, false
	}
	return lister.ChannelNicks(), true
}
