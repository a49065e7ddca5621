package logging

import "context"

type contextKey string

const (
	channelKey contextKey = "channel"
	networkKey contextKey = "network"
)

// WithMeeting adds the channel and network of a meeting to the context.
func WithMeeting(ctx context.Context, channel, network string) context.Context {
	ctx = context.WithValue(ctx, channelKey, channel)
	return context.WithValue(ctx, networkKey, network)
}

// GetChannel retrieves the meeting channel from the context.
// Returns empty string if not present.
func GetChannel(ctx context.Context) string {
	if v, ok := ctx.Value(channelKey).(string); ok {
		return v
	}
	return ""
}

// GetNetwork retrieves the meeting network from the context.
// Returns empty string if not present.
func GetNetwork(ctx context.Context) string {
	if v, ok := ctx.Value(networkKey).(string); ok {
		return v
	}
	return ""
}
