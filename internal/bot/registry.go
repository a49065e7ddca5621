// Package bot routes chat lines to meeting sessions. Each active meeting,
// identified by its channel and network, is owned by one worker goroutine.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aliceinwire/meetbot2/internal/core/eventbus"
	"github.com/aliceinwire/meetbot2/internal/core/history"
	"github.com/aliceinwire/meetbot2/internal/core/logging"
	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/pkg/randid"
)

// RecentMax is the number of meeting starts remembered by Recent.
const RecentMax = 10

var (
	ErrMeetingExists       = errors.New("this meeting already exists")
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrMeetingNameRequired = errors.New("a meeting name is required to start a meeting")
	ErrNotChair            = errors.New("only a chair can end the meeting")
)

// Key identifies a meeting.
type Key struct {
	Channel string
	Network string
}

func (k Key) String() string {
	return k.Channel + " on " + k.Network
}

// Line is one chat message delivered by a transport.
type Line struct {
	Channel string
	Network string
	Nick    string
	Text    string
	Time    time.Time // zero means now
}

func (l Line) key() Key { return Key{Channel: l.Channel, Network: l.Network} }

// TopicReader is optionally implemented by a Transport that knows the
// current channel topic. The topic is restored when the meeting ends.
type TopicReader interface {
	Topic() string
}

// TransportFactory returns the transport a new meeting talks through.
type TransportFactory func(channel, network string) meeting.Transport

// Started records when a meeting was created.
type Started struct {
	Key
	At time.Time
}

// Params configures a Registry.
type Params struct {
	Options    meeting.Options
	Transports TransportFactory
	History    history.Store // optional
	HistoryMax int
	Events     *eventbus.EventBus // optional
	Logger     zerolog.Logger
	Now        func() time.Time // defaults to time.Now
}

// Registry maps (channel, network) to the worker that owns the meeting.
type Registry struct {
	opts       meeting.Options
	transports TransportFactory
	history    history.Store
	historyMax int
	events     *eventbus.EventBus
	log        zerolog.Logger
	now        func() time.Time

	mu      sync.Mutex
	workers map[Key]*worker
	recent  []Started
}

// New creates an empty registry.
func New(p Params) *Registry {
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Transports == nil {
		p.Transports = func(string, string) meeting.Transport { return nil }
	}

	return &Registry{
		opts:       p.Options,
		transports: p.Transports,
		history:    p.History,
		historyMax: p.HistoryMax,
		events:     p.Events,
		log:        p.Logger.Hook(logging.ContextHook{}),
		now:        p.Now,
		workers:    make(map[Key]*worker),
	}
}

// Handle routes a chat line to its meeting. A #startmeeting line for a
// channel without a meeting creates one owned by the sender; other lines for
// such channels are ignored, as are lines that reach a meeting while it is
// being retired. A meeting that ends is removed and recorded in the history.
func (r *Registry) Handle(ctx context.Context, line Line) error {
	key := line.key()
	ctx = logging.WithMeeting(ctx, key.Channel, key.Network)
	at := line.Time
	if at.IsZero() {
		at = r.now()
	}

	r.mu.Lock()
	w, ok := r.workers[key]
	if !ok {
		if !isStartMeeting(line.Text) {
			r.mu.Unlock()
			return nil
		}
		w = r.spawnLocked(ctx, key, line.Nick, at)
	}
	r.mu.Unlock()

	var (
		over  bool
		entry history.Entry
	)
	err := w.do(ctx, func(s *meeting.Session) error {
		err := s.Process(line.Nick, line.Text, at)
		if s.IsOver() {
			over = true
			entry = newEntry(s)
		}
		return err
	})
	if errors.Is(err, errWorkerStopped) {
		// the meeting ended between lookup and delivery
		return nil
	}

	if over {
		r.retire(ctx, w, &entry)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// StartMeeting creates a meeting for channel and starts it on behalf of
// owner. The name becomes the meeting topic and name.
func (r *Registry) StartMeeting(ctx context.Context, channel, network, owner, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMeetingNameRequired
	}

	key := Key{Channel: channel, Network: network}
	ctx = logging.WithMeeting(ctx, channel, network)
	at := r.now()

	r.mu.Lock()
	if _, ok := r.workers[key]; ok {
		r.mu.Unlock()
		return ErrMeetingExists
	}
	w := r.spawnLocked(ctx, key, owner, at)
	r.mu.Unlock()

	return w.do(ctx, func(s *meeting.Session) error {
		return s.Process(owner, "#startmeeting "+name, at)
	})
}

// EndMeeting ends a meeting on behalf of nick, who must be a chair. The
// minutes are saved in full and the meeting is removed. The channel gets no
// closing message.
func (r *Registry) EndMeeting(ctx context.Context, channel, network, nick string) error {
	key := Key{Channel: channel, Network: network}
	ctx = logging.WithMeeting(ctx, channel, network)

	w, err := r.lookup(key)
	if err != nil {
		return err
	}

	var entry history.Entry
	err = w.do(ctx, func(s *meeting.Session) error {
		if !s.IsChair(nick) {
			return ErrNotChair
		}
		s.SetEndTime(r.now())
		if _, err := s.Save(false); err != nil {
			s.SetEndTime(time.Time{})
			return err
		}
		entry = newEntry(s)
		return nil
	})
	if err != nil {
		return err
	}

	r.retire(ctx, w, &entry)
	return nil
}

// DeleteMeeting discards a meeting. With save set, the minutes are saved in
// full first and the meeting is recorded in the history; a meeting that never
// started has nothing to save.
func (r *Registry) DeleteMeeting(ctx context.Context, channel, network string, save bool) error {
	key := Key{Channel: channel, Network: network}
	ctx = logging.WithMeeting(ctx, channel, network)

	w, err := r.lookup(key)
	if err != nil {
		return err
	}

	var entry *history.Entry
	if save {
		err = w.do(ctx, func(s *meeting.Session) error {
			s.SetEndTime(r.now())
			_, err := s.Save(false)
			switch {
			case errors.Is(err, meeting.ErrNotStarted):
				return nil
			case err != nil:
				return err
			}
			e := newEntry(s)
			entry = &e
			return nil
		})
		if err != nil {
			return err
		}
	}

	r.retire(ctx, w, entry)
	return nil
}

// List returns the keys of all active meetings, sorted.
func (r *Registry) List() []Key {
	r.mu.Lock()
	keys := make([]Key, 0, len(r.workers))
	for k := range r.workers {
		keys = append(keys, k)
	}
	r.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Network != keys[j].Network {
			return keys[i].Network < keys[j].Network
		}
		return keys[i].Channel < keys[j].Channel
	})
	return keys
}

// Recent returns up to RecentMax meeting starts, newest first.
func (r *Registry) Recent() []Started {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Started, len(r.recent))
	for i, s := range r.recent {
		out[len(r.recent)-1-i] = s
	}
	return out
}

// Close stops every worker. Active meetings are discarded without saving.
func (r *Registry) Close() {
	r.mu.Lock()
	workers := make([]*worker, 0, len(r.workers))
	for k, w := range r.workers {
		workers = append(workers, w)
		delete(r.workers, k)
	}
	r.mu.Unlock()

	for _, w := range workers {
		w.stop()
	}
}

func (r *Registry) lookup(key Key) (*worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workers[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrMeetingNotFound)
	}
	return w, nil
}

// spawnLocked creates the session and worker for key. r.mu must be held.
func (r *Registry) spawnLocked(ctx context.Context, key Key, owner string, at time.Time) *worker {
	transport := r.transports(key.Channel, key.Network)

	var oldTopic string
	if tr, ok := transport.(TopicReader); ok {
		oldTopic = tr.Topic()
	}

	s := meeting.New(meeting.Params{
		Channel:   key.Channel,
		Network:   key.Network,
		Owner:     owner,
		OldTopic:  oldTopic,
		Transport: transport,
		Logger:    logging.ForMeeting(r.log, key.Channel, key.Network),
		Created:   at,
	}, r.opts)

	w := newWorker(key, s)
	r.workers[key] = w

	r.recent = append(r.recent, Started{Key: key, At: at})
	if len(r.recent) > RecentMax {
		r.recent = r.recent[len(r.recent)-RecentMax:]
	}

	r.log.Info().Ctx(ctx).Str("owner", owner).Msg("meeting created")
	r.events.PublishMeetingStarted(eventbus.MeetingStartedPayload{
		Channel: key.Channel,
		Network: key.Network,
		Owner:   owner,
		At:      at,
	})
	return w
}

// retire removes w from the registry, stops it and records entry when set.
func (r *Registry) retire(ctx context.Context, w *worker, entry *history.Entry) {
	r.mu.Lock()
	if cur, ok := r.workers[w.key]; ok && cur == w {
		delete(r.workers, w.key)
	}
	r.mu.Unlock()

	w.stop()
	r.log.Info().Ctx(ctx).Msg("meeting removed")

	if entry == nil {
		r.events.PublishMeetingDiscarded(eventbus.MeetingDiscardedPayload{Channel: w.key.Channel, Network: w.key.Network})
		return
	}
	r.events.PublishMeetingEnded(eventbus.MeetingEndedPayload{Entry: *entry})

	if r.history == nil {
		return
	}
	if err := r.history.Save(ctx, *entry, r.historyMax); err != nil {
		r.log.Error().Ctx(ctx).Err(err).Msg("record meeting history")
	}
}

func newEntry(s *meeting.Session) history.Entry {
	base, _ := s.BaseName(false)
	return history.Entry{
		ID:        randid.Generate(8),
		Channel:   s.Channel(),
		Network:   s.Network(),
		Name:      s.MeetingName(),
		Owner:     s.Owner(),
		StartedAt: s.StartTime(),
		EndedAt:   s.EndTime(),
		BaseName:  base,
		Items:     len(s.Minutes()),
		Lines:     len(s.Lines()),
	}
}

// isStartMeeting reports whether text is a #startmeeting command.
func isStartMeeting(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], "#startmeeting")
}
