package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/aliceinwire/meetbot2/internal/core/doctor"
	"github.com/aliceinwire/meetbot2/internal/core/styles"
	"github.com/aliceinwire/meetbot2/internal/printer"
	"github.com/aliceinwire/meetbot2/internal/store/jsonfile"
	"github.com/aliceinwire/meetbot2/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	format  string
	autofix bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your meetbot setup",
		UsageText:   "meetbot doctor [options]",
		Description: "Runs diagnostic checks on configuration, storage directories, and minutes writers.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "autofix",
				Usage:       "automatically fix issues (e.g., create missing directories)",
				Destination: &cmd.autofix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() []doctor.Check {
	cfg := cmd.flags.Config
	return []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewStorageCheck(cfg.LogDir, cfg.DataDir, jsonfile.NewHistoryStore(cfg.HistoryFile()), cmd.autofix),
		doctor.NewWritersCheck(cfg.WriterSpecs()),
	}
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, cmd.checks())

	if cmd.format == "json" {
		return cmd.outputJSON(c, results)
	}

	return cmd.outputText(printer.Ctx(ctx), results)
}

func (cmd *DoctorCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	tally := doctor.Count(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary doctor.Tally    `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: tally.Healthy(),
		Summary: tally,
		Checks:  results,
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if !tally.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) outputText(p *printer.Printer, results []doctor.Result) error {
	p.Printf("")
	p.Printf("%s", styles.HeaderStyle.Render("Meetbot Doctor"))
	p.Printf("%s", styles.MutedStyle.Render(strings.Repeat("─", 40)))

	for _, result := range results {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}
	}

	tally := doctor.Count(results)
	p.Printf("")
	p.Printf("%s  %s  %s",
		styles.SuccessStyle.Render(fmt.Sprintf("%d passed", tally.Passed)),
		styles.WarningStyle.Render(fmt.Sprintf("%d warnings", tally.Warned)),
		styles.ErrorStyle.Render(fmt.Sprintf("%d failed", tally.Failed)),
	)

	if !cmd.autofix && tally.Fixable > 0 {
		p.Printf("")
		p.Printf("%s", styles.MutedStyle.Render(fmt.Sprintf("Run 'meetbot doctor --autofix' to fix %d issue(s)", tally.Fixable)))
	}

	if !tally.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}
