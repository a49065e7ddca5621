package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs bus activity. Published events are logged at
// debug level with the meeting channel when the payload names one.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		logEvent(logger.Debug(), event, payload).Msg("event published")
	})

	bus.OnDrop(func(event Event, payload any) {
		logEvent(logger.Warn(), event, payload).Msg("event dropped: buffer full")
	})

	bus.OnPanic(func(event Event, payload any, recovered any) {
		logEvent(logger.Error(), event, payload).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func logEvent(e *zerolog.Event, event Event, payload any) *zerolog.Event {
	e = e.Str("event", string(event))

	switch p := payload.(type) {
	case MeetingStartedPayload:
		e = e.Str("channel", p.Channel).Str("network", p.Network)
	case MeetingEndedPayload:
		e = e.Str("channel", p.Entry.Channel).Str("network", p.Entry.Network).Str("id", p.Entry.ID)
	case MeetingDiscardedPayload:
		e = e.Str("channel", p.Channel).Str("network", p.Network)
	}
	return e
}
