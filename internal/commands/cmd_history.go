package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/aliceinwire/meetbot2/internal/core/history"
	"github.com/aliceinwire/meetbot2/internal/core/logging"
	"github.com/aliceinwire/meetbot2/internal/core/styles"
	"github.com/aliceinwire/meetbot2/internal/printer"
	"github.com/aliceinwire/meetbot2/internal/store/jsonfile"
	"github.com/aliceinwire/meetbot2/pkg/iojson"
)

type HistoryCmd struct {
	flags *Flags

	// flags
	json   bool
	follow bool
	limit  int
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "List finished meetings",
		Description: `Lists recorded meetings, newest first. Use --follow to keep printing
meetings as they finish.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.json,
			},
			&cli.BoolFlag{
				Name:        "follow",
				Usage:       "print new meetings as they are recorded",
				Destination: &cmd.follow,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "show at most n meetings (0 for all)",
				Value:       20,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.runList,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show one meeting",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.json,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:   "clear",
				Usage:  "Forget all recorded meetings",
				Action: cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *HistoryCmd) store() *jsonfile.HistoryStore {
	return jsonfile.NewHistoryStore(cmd.flags.Config.HistoryFile())
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	store := cmd.store()
	out := c.Root().Writer

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if cmd.limit > 0 && len(entries) > cmd.limit {
		entries = entries[:cmd.limit]
	}

	if !cmd.follow {
		if len(entries) == 0 && !cmd.json {
			printer.Ctx(ctx).Infof("No meetings recorded yet.")
			return nil
		}
		return cmd.write(out, entries)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.ID] = struct{}{}
	}
	// oldest first, so new meetings append below
	reversed := make([]history.Entry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	if err := cmd.write(out, reversed); err != nil {
		return err
	}

	watcher, err := jsonfile.NewHistoryWatcher(store.Path(), logging.Component("history"))
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for range watcher.Watch(ctx) {
		latest, err := store.List(ctx)
		if err != nil {
			return err
		}

		var fresh []history.Entry
		for i := len(latest) - 1; i >= 0; i-- {
			if _, ok := seen[latest[i].ID]; ok {
				continue
			}
			seen[latest[i].ID] = struct{}{}
			fresh = append(fresh, latest[i])
		}
		if err := cmd.write(out, fresh); err != nil {
			return err
		}
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (cmd *HistoryCmd) write(out io.Writer, entries []history.Entry) error {
	if cmd.json {
		return iojson.WriteLines(out, entries)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d items\n",
			styles.MutedStyle.Render(e.ID),
			styles.TimeStyle.Render(e.StartedAt.Format("2006-01-02 15:04")),
			styles.ChannelStyle.Render(e.Channel),
			e.Name,
			e.Duration().Round(time.Minute),
			e.Items,
		)
	}
	return tw.Flush()
}

func (cmd *HistoryCmd) runShow(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one meeting ID")
	}

	e, err := cmd.store().Get(ctx, c.Args().First())
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.json {
		return iojson.WriteWith(out, os.Stderr, e)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", e.ID},
		{"Name", e.Name},
		{"Channel", e.Channel},
		{"Network", e.Network},
		{"Owner", e.Owner},
		{"Started", e.StartedAt.Format(time.RFC1123)},
		{"Ended", e.EndedAt.Format(time.RFC1123)},
		{"Duration", e.Duration().Round(time.Second).String()},
		{"Items", fmt.Sprint(e.Items)},
		{"Lines", fmt.Sprint(e.Lines)},
		{"Files", e.BaseName + ".*"},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", styles.HeaderStyle.Render(r[0]), r[1])
	}
	return tw.Flush()
}

func (cmd *HistoryCmd) runClear(ctx context.Context, _ *cli.Command) error {
	if err := cmd.store().Clear(ctx); err != nil {
		return err
	}
	printer.Ctx(ctx).Successf("History cleared")
	return nil
}
