// Package logging holds helpers shared by everything that writes logs.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger derived from the global logger with a "cmp"
// field naming the component.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ForMeeting derives a logger tagged with a meeting's channel and network.
func ForMeeting(base zerolog.Logger, channel, network string) zerolog.Logger {
	return base.With().Str("channel", channel).Str("network", network).Logger()
}
