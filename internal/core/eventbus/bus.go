package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus delivers published events to subscribers on a single dispatch
// goroutine, in publish order. Publishing never blocks; events are dropped
// when the buffer is full.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus buffering up to size events. Call Start to dispatch.
func New(size int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, size),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is done.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := append([]func(any){}, bus.subs[env.event]...)
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	if bus == nil {
		return
	}

	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	bus.runOnSubscribe(event)
}

// subscribeTo registers a typed handler.
func subscribeTo[T any](bus *EventBus, event Event, fn func(T)) {
	bus.subscribe(event, func(p any) {
		if v, ok := p.(T); ok {
			fn(v)
		}
	})
}

func (bus *EventBus) PublishMeetingStarted(p MeetingStartedPayload) {
	bus.send(EventMeetingStarted, p)
}

func (bus *EventBus) SubscribeMeetingStarted(fn func(MeetingStartedPayload)) {
	subscribeTo(bus, EventMeetingStarted, fn)
}

func (bus *EventBus) PublishMeetingEnded(p MeetingEndedPayload) {
	bus.send(EventMeetingEnded, p)
}

func (bus *EventBus) SubscribeMeetingEnded(fn func(MeetingEndedPayload)) {
	subscribeTo(bus, EventMeetingEnded, fn)
}

func (bus *EventBus) PublishMeetingDiscarded(p MeetingDiscardedPayload) {
	bus.send(EventMeetingDiscarded, p)
}

func (bus *EventBus) SubscribeMeetingDiscarded(fn func(MeetingDiscardedPayload)) {
	subscribeTo(bus, EventMeetingDiscarded, fn)
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	subscribeTo(bus, EventNotificationPublished, fn)
}
