package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/internal/core/styles"
	"github.com/aliceinwire/meetbot2/pkg/iojson"
)

var commandHelp = map[string]string{
	"startmeeting": "start a meeting; the rest of the line names it",
	"endmeeting":   "end the meeting and write the minutes (chairs)",
	"topic":        "set the current topic (chairs)",
	"meetingtopic": "set the meeting title shown in the channel topic (chairs)",
	"chair":        "add chairs (chairs)",
	"unchair":      "remove chairs (chairs)",
	"meetingname":  "set the name used in file names",
	"undo":         "remove the last minutes item (chairs)",
	"lurk":         "stop replying in the channel (chairs)",
	"unlurk":       "reply in the channel again (chairs)",
	"save":         "write the minutes now (chairs)",
	"restrictlogs": "restrict file permissions of the logs (chairs)",
	"nick":         "add nicks to the attendee list",
	"startvote":    "open a vote: #startvote Question? a, b, c (chairs)",
	"vote":         "cast a vote in the open vote",
	"showvote":     "show who voted for what",
	"endvote":      "close the vote and record the result (chairs)",
	"commands":     "list the commands",
	"action":       "record an action item",
	"info":         "record information",
	"idea":         "record an idea",
	"help":         "record a call for help",
	"halp":         "same as #help",
	"link":         "record a link",
	"agreed":       "record an agreement (chairs)",
	"agree":        "same as #agreed",
	"accepted":     "record an acceptance (chairs)",
	"accept":       "same as #accepted",
	"rejected":     "record a rejection (chairs)",
	"reject":       "same as #rejected",
}

type CommandsCmd struct {
	flags *Flags

	// flags
	json bool
}

// NewCommandsCmd creates a new commands command
func NewCommandsCmd(flags *Flags) *CommandsCmd {
	return &CommandsCmd{flags: flags}
}

// Register adds the commands command to the application
func (cmd *CommandsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "commands",
		Usage: "List the commands understood in a meeting",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

type commandInfo struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

func (cmd *CommandsCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if cmd.json {
		for _, name := range meeting.Commands() {
			if err := iojson.WriteLine(out, commandInfo{Command: "#" + name, Description: commandHelp[name]}); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range meeting.Commands() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", "#"+name, styles.MutedStyle.Render(commandHelp[name]))
	}
	return tw.Flush()
}
