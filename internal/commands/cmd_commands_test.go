package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
)

func TestCommandHelpCoversEveryCommand(t *testing.T) {
	for _, name := range meeting.Commands() {
		assert.NotEmpty(t, commandHelp[name], name)
	}
}

func TestCommandsCmd(t *testing.T) {
	run := func(args ...string) string {
		var out bytes.Buffer
		app := &cli.Command{Name: "meetbot", Writer: &out}
		app = NewCommandsCmd(&Flags{}).Register(app)
		require.NoError(t, app.Run(context.Background(), append([]string{"meetbot", "commands"}, args...)))
		return out.String()
	}

	text := run()
	assert.Contains(t, text, "#startmeeting")
	assert.Contains(t, text, "record an action item")

	var names []string
	scanner := bufio.NewScanner(bytes.NewBufferString(run("--json")))
	for scanner.Scan() {
		var info commandInfo
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &info))
		names = append(names, info.Command)
	}
	require.Len(t, names, len(meeting.Commands()))
	assert.Contains(t, names, "#endmeeting")
}
