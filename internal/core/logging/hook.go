package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies the meeting channel and network from the event context
// into the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if channel := GetChannel(ctx); channel != "" {
		e.Str("channel", channel)
	}
	if network := GetNetwork(ctx); network != "" {
		e.Str("network", network)
	}
}
