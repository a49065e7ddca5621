package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/aliceinwire/meetbot2/internal/commands/init"
)

type InitCmd struct {
	flags    *Flags
	yes      bool
	force    bool
	logDir   string
	timeZone string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize meetbot configuration with an interactive wizard",
		UsageText: "meetbot init [options]",
		Description: `Sets up meetbot for first-time use with an interactive wizard.

The wizard asks where minutes are written, their public URL, the time zone
and the color theme, then writes the config file and checks that it loads.

Use --yes to accept all defaults without prompts.
Use --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "log-dir",
				Usage:       "directory minutes are written to",
				Destination: &cmd.logDir,
			},
			&cli.StringFlag{
				Name:        "time-zone",
				Usage:       "time zone for timestamps in the minutes",
				Destination: &cmd.timeZone,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, _ *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		LogDir:     cmd.logDir,
		TimeZone:   cmd.timeZone,
	})
	return wizard.Run(ctx)
}
