// Package eventbus provides a typed publish/subscribe event bus for meeting
// lifecycle events.
package eventbus

import (
	"time"

	"github.com/aliceinwire/meetbot2/internal/core/history"
	"github.com/aliceinwire/meetbot2/internal/core/notify"
)

// Event names a kind of event.
type Event string

// Keep list sorted A-Z
const (
	EventMeetingDiscarded      Event = "meeting.discarded"
	EventMeetingEnded          Event = "meeting.ended"
	EventMeetingStarted        Event = "meeting.started"
	EventNotificationPublished Event = "notification.published"
)

// MeetingStartedPayload is emitted when a meeting is created for a channel.
type MeetingStartedPayload struct {
	Channel string
	Network string
	Owner   string
	At      time.Time
}

// MeetingEndedPayload is emitted when a meeting ended and its minutes were
// saved.
type MeetingEndedPayload struct {
	Entry history.Entry
}

// MeetingDiscardedPayload is emitted when a meeting is removed without
// saving.
type MeetingDiscardedPayload struct {
	Channel string
	Network string
}

// NotificationPublishedPayload carries a user facing message.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}
