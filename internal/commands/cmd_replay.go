package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/aliceinwire/meetbot2/internal/bot"
	"github.com/aliceinwire/meetbot2/internal/core/history"
	"github.com/aliceinwire/meetbot2/internal/core/logging"
	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/internal/core/minutes"
	"github.com/aliceinwire/meetbot2/internal/core/styles"
	"github.com/aliceinwire/meetbot2/internal/printer"
	"github.com/aliceinwire/meetbot2/internal/store/jsonfile"
)

const previewExtension = ".none.preview"

type ReplayCmd struct {
	flags *Flags

	// flags
	channel   string
	network   string
	date      string
	logDir    string
	echo      bool
	preview   bool
	noHistory bool
	input     inputFile
}

// NewReplayCmd creates a new replay command
func NewReplayCmd(flags *Flags) *ReplayCmd {
	return &ReplayCmd{flags: flags}
}

// Register adds the replay command to the application
func (cmd *ReplayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "replay",
		Usage:     "Generate minutes from a saved chat transcript",
		UsageText: "meetbot replay [options] < transcript.log",
		Description: `Feeds a transcript through the meeting bot as if the lines were said live and
writes the minutes like a finished meeting.

Each line is "[HH:MM] <nick> text", "[HH:MM] nick: text" or "[HH:MM] * nick action".
The timestamp is optional. A meeting still open at the end of the transcript is
closed and saved.

Examples:
  meetbot replay -f weekly.log --channel '#infra'
  irssi-export | meetbot replay --date 2024-03-05 --preview`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "channel",
				Usage:       "channel the transcript was recorded in",
				Value:       "#meetbot-test",
				Destination: &cmd.channel,
			},
			&cli.StringFlag{
				Name:        "network",
				Usage:       "network name used in file names and history",
				Value:       "local",
				Destination: &cmd.network,
			},
			&cli.StringFlag{
				Name:        "date",
				Usage:       "day the transcript starts on (YYYY-MM-DD, default today)",
				Destination: &cmd.date,
			},
			&cli.StringFlag{
				Name:        "log-dir",
				Usage:       "write minutes here instead of the configured log_dir",
				Destination: &cmd.logDir,
			},
			&cli.BoolFlag{
				Name:        "echo",
				Usage:       "print bot replies while replaying",
				Destination: &cmd.echo,
			},
			&cli.BoolFlag{
				Name:        "preview",
				Usage:       "render the minutes of the last meeting to the terminal",
				Destination: &cmd.preview,
			},
			&cli.BoolFlag{
				Name:        "no-history",
				Usage:       "do not record replayed meetings in the history",
				Destination: &cmd.noHistory,
			},
			cmd.input.Flag("read the transcript from a file instead of stdin"),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReplayCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	p := printer.Ctx(ctx)
	out := c.Root().Writer

	opts, err := cfg.MeetingOptions(c.Root().Version, log.Logger)
	if err != nil {
		return err
	}
	if cmd.logDir != "" {
		opts.LogDir = cmd.logDir
	}

	day, err := cmd.startDay(opts.Location)
	if err != nil {
		return err
	}

	in, err := cmd.input.Open(false)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	lines, err := parseTranscript(in, day)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("transcript has no chat lines")
	}

	var preview previewCapture
	if cmd.preview {
		opts.Writers = append(opts.Writers, preview.entry())
	}

	replies := io.Discard
	if cmd.echo {
		replies = out
	}
	// replies are stamped with the time of the line that caused them
	var clock time.Time
	transport := newConsoleTransport(replies, cmd.channel, cfg.BotNick, "")
	transport.now = func() time.Time { return clock }

	store := &recordingStore{}
	if !cmd.noHistory {
		store.Store = jsonfile.NewHistoryStore(cfg.HistoryFile())
	}

	reg := bot.New(bot.Params{
		Options:    opts,
		Transports: func(string, string) meeting.Transport { return transport },
		History:    store,
		HistoryMax: cfg.HistoryMax,
		Logger:     logging.Component("replay"),
	})
	defer reg.Close()

	for _, line := range lines {
		transport.see(line.Nick)
		clock = line.Time

		err := reg.Handle(ctx, bot.Line{
			Channel: cmd.channel,
			Network: cmd.network,
			Nick:    line.Nick,
			Text:    line.Text,
			Time:    line.Time,
		})
		if err != nil {
			p.Warnf("%s <%s> %s: %v", line.Time.Format(time.TimeOnly), line.Nick, line.Text, err)
		}
	}

	for _, key := range reg.List() {
		p.Warnf("meeting on %s was not ended, closing it", key)
		if err := reg.DeleteMeeting(ctx, key.Channel, key.Network, true); err != nil {
			return err
		}
	}

	saved := store.entries()
	if len(saved) == 0 {
		return fmt.Errorf("no meeting found in transcript (is there a #startmeeting line?)")
	}

	for _, e := range saved {
		p.Section(fmt.Sprintf("%s (%s, %d items)", e.Name, e.Duration().Round(time.Second), e.Items))
		for _, w := range opts.Writers {
			if meeting.Suppressed(w.Extension) {
				continue
			}
			p.CheckItem(e.BaseName+w.Extension, "")
		}
	}

	if cmd.preview {
		return renderMarkdown(out, preview.text())
	}
	return nil
}

func (cmd *ReplayCmd) startDay(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if cmd.date == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
	}

	day, err := time.ParseInLocation(time.DateOnly, cmd.date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", cmd.date)
	}
	return day, nil
}

// previewCapture is a writer that keeps the markdown minutes of the last
// saved meeting in memory.
type previewCapture struct {
	mu sync.Mutex
	md string
}

func (pc *previewCapture) entry() meeting.WriterEntry {
	return meeting.WriterEntry{
		Extension: previewExtension,
		Writer: meeting.WriterFunc(func(s *meeting.Session) (meeting.Result, error) {
			res, err := minutes.Markdown{}.Format(s)
			if err != nil {
				return meeting.Result{}, err
			}
			pc.mu.Lock()
			pc.md = res.Text
			pc.mu.Unlock()
			return meeting.Result{Handled: true}, nil
		}),
	}
}

func (pc *previewCapture) text() string {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.md
}

// recordingStore remembers the entries it saves and forwards them to Store
// when one is set.
type recordingStore struct {
	history.Store

	mu    sync.Mutex
	saved []history.Entry
}

func (r *recordingStore) Save(ctx context.Context, e history.Entry, maxEntries int) error {
	r.mu.Lock()
	r.saved = append(r.saved, e)
	r.mu.Unlock()

	if r.Store == nil {
		return nil
	}
	return r.Store.Save(ctx, e, maxEntries)
}

func (r *recordingStore) entries() []history.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]history.Entry(nil), r.saved...)
}

// renderMarkdown writes md styled for the terminal, or as is when w is not
// one.
func renderMarkdown(w io.Writer, md string) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, md)
		return err
	}

	width := 100
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 && cols < width {
		width = cols
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render minutes: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}
