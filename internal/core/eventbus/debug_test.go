package eventbus_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/aliceinwire/meetbot2/internal/core/eventbus"
	"github.com/aliceinwire/meetbot2/internal/core/eventbus/testbus"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	var buf syncWriter
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.New(&buf).Level(zerolog.DebugLevel))

	tb.PublishMeetingStarted(eventbus.MeetingStartedPayload{Channel: "#ops"})
	tb.PublishMeetingDiscarded(eventbus.MeetingDiscardedPayload{Channel: "#ops"})

	tb.AssertPublished(t, eventbus.EventMeetingDiscarded)
	assert.Contains(t, buf.String(), `"event":"meeting.started"`)
	assert.Contains(t, buf.String(), `"channel":"#ops"`)
	assert.Contains(t, buf.String(), `"event":"meeting.discarded"`)
}

func TestRegisterDebugLogger_Drop(t *testing.T) {
	bus := eventbus.New(1) // never started, so the second publish is dropped

	var buf syncWriter
	eventbus.RegisterDebugLogger(bus, zerolog.New(&buf))

	bus.PublishMeetingStarted(eventbus.MeetingStartedPayload{})
	bus.PublishMeetingStarted(eventbus.MeetingStartedPayload{})

	assert.Contains(t, buf.String(), "event dropped: buffer full")
}

type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}
