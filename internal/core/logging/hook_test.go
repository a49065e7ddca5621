package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		want      map[string]string
		wantEmpty []string
	}{
		{
			name: "meeting in context",
			ctx:  WithMeeting(context.Background(), "#ops", "Libera"),
			want: map[string]string{"channel": "#ops", "network": "Libera"},
		},
		{
			name:      "channel without network",
			ctx:       WithMeeting(context.Background(), "#ops", ""),
			want:      map[string]string{"channel": "#ops"},
			wantEmpty: []string{"network"},
		},
		{
			name:      "no context values",
			ctx:       context.Background(),
			wantEmpty: []string{"channel", "network"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.ctx).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for key, value := range tt.want {
				assert.Equal(t, value, entry[key])
			}
			for _, key := range tt.wantEmpty {
				assert.NotContains(t, entry, key)
			}
		})
	}
}
