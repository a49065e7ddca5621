package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteLine(&buf, map[string]string{"channel": "#ops"}))
	require.NoError(t, WriteLine(&buf, map[string]int{"items": 3}))

	assert.Equal(t, "{\"channel\":\"#ops\"}\n{\"items\":3}\n", buf.String())
	assert.Error(t, WriteLine(&buf, func() {}))
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, struct {
		Valid bool `json:"valid"`
	}{Valid: true}))
	assert.Equal(t, "{\n  \"valid\": true\n}\n", out.String())

	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	var e Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &e))
	assert.Equal(t, "cannot encode output", e.Message)
	assert.Contains(t, e.Data, "json_error")
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteLines(&buf, []int{1, 2}))
	assert.Equal(t, "1\n2\n", buf.String())

	buf.Reset()
	assert.Error(t, WriteLines(&buf, []any{1, func() {}, 3}))
	assert.Equal(t, "1\n", buf.String())
}
