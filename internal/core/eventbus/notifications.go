package eventbus

import (
	"fmt"
	"time"

	"github.com/aliceinwire/meetbot2/internal/core/notify"
)

// NotificationRouter maps meeting events to user facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeMeetingStarted(func(p MeetingStartedPayload) {
		r.notifyf(notify.LevelInfo, "meeting started on %s by %s", p.Channel, p.Owner)
	})

	r.bus.SubscribeMeetingEnded(func(p MeetingEndedPayload) {
		e := p.Entry
		r.notifyf(notify.LevelInfo, "meeting %q on %s ended after %s with %d items; minutes at %s.*",
			e.Name, e.Channel, e.Duration().Round(time.Second), e.Items, e.BaseName)
	})

	r.bus.SubscribeMeetingDiscarded(func(p MeetingDiscardedPayload) {
		r.notifyf(notify.LevelWarning, "meeting on %s discarded without saving", p.Channel)
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
