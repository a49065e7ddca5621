package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/aliceinwire/meetbot2/internal/bot"
	"github.com/aliceinwire/meetbot2/internal/core/eventbus"
	"github.com/aliceinwire/meetbot2/internal/core/logging"
	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/internal/core/notify"
	"github.com/aliceinwire/meetbot2/internal/debugserver"
	"github.com/aliceinwire/meetbot2/internal/printer"
	"github.com/aliceinwire/meetbot2/internal/store/jsonfile"
)

type ConsoleCmd struct {
	flags *Flags

	// flags
	channel   string
	network   string
	topic     string
	debugAddr string
	input     inputFile
}

// NewConsoleCmd creates a new console command
func NewConsoleCmd(flags *Flags) *ConsoleCmd {
	return &ConsoleCmd{flags: flags}
}

// Register adds the console command to the application
func (cmd *ConsoleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "console",
		Usage:     "Run meetings from the terminal",
		UsageText: "meetbot console [--channel C] [--network N]",
		Description: `Reads chat lines from stdin and runs them through the meeting bot. Replies and
topic changes are printed as the bot would send them.

Lines look like "nick: text" or "<nick> text". Say "alice: #startmeeting Weekly"
to open a meeting. Lines starting with "/" are admin commands:

  /start OWNER NAME   start a named meeting owned by OWNER
  /end NICK           end the meeting on behalf of chair NICK
  /delete [nosave]    discard the meeting, saving it unless nosave
  /list               list active meetings
  /recent             list recently started meetings
  /quit               exit`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "channel",
				Usage:       "channel the lines are said in",
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
				Name:        "topic",
				Usage:       "channel topic restored when a meeting ends",
				Destination: &cmd.topic,
			},
			&cli.StringFlag{
				Name:        "debug-addr",
				Usage:       "serve active meetings and pprof on this address (e.g. 127.0.0.1:6060)",
				Sources:     cli.EnvVars("MEETBOT_DEBUG_ADDR"),
				Destination: &cmd.debugAddr,
			},
			cmd.input.Flag("read lines from a file instead of stdin"),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ConsoleCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	logger := logging.Component("console")

	opts, err := cfg.MeetingOptions(c.Root().Version, log.Logger)
	if err != nil {
		return err
	}

	in, err := cmd.input.Open(true)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out := c.Root().Writer
	transport := newConsoleTransport(out, cmd.channel, cfg.BotNick, cmd.topic)

	bus := eventbus.New(64)
	eventbus.RegisterDebugLogger(bus, logger)
	eventbus.NewNotificationRouter(bus).Register()
	notices := printer.Ctx(ctx)
	bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		switch p.Level {
		case notify.LevelWarning:
			notices.Warnf("%s", p.Message)
		case notify.LevelError:
			notices.Errorf("%s", p.Message)
		default:
			notices.Infof("%s", p.Message)
		}
	})

	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()
	go bus.Start(busCtx)

	reg := bot.New(bot.Params{
		Options:    opts,
		Transports: func(string, string) meeting.Transport { return transport },
		History:    jsonfile.NewHistoryStore(cfg.HistoryFile()),
		HistoryMax: cfg.HistoryMax,
		Events:     bus,
		Logger:     logger,
	})
	defer reg.Close()

	if cmd.debugAddr != "" {
		srv := debugserver.New(cmd.debugAddr, reg, logger)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	ctx = printer.NewContext(ctx, printer.New(out))
	return cmd.loop(ctx, reg, transport, in)
}

func (cmd *ConsoleCmd) loop(ctx context.Context, reg *bot.Registry, transport *consoleTransport, in io.Reader) error {
	p := printer.Ctx(ctx)
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			quit, err := cmd.admin(ctx, reg, text)
			if err != nil {
				p.Errorf("%v", err)
			}
			if quit {
				return nil
			}
			continue
		}

		line, ok := parseChatLine(text, time.Now())
		if !ok {
			p.Warnf("expected \"nick: text\" or \"<nick> text\"")
			continue
		}
		transport.see(line.Nick)

		err := reg.Handle(ctx, bot.Line{
			Channel: cmd.channel,
			Network: cmd.network,
			Nick:    line.Nick,
			Text:    line.Text,
		})
		if err != nil {
			p.Errorf("%v", err)
		}
	}

	return scanner.Err()
}

// admin runs a slash command. It reports whether the console should exit.
func (cmd *ConsoleCmd) admin(ctx context.Context, reg *bot.Registry, text string) (bool, error) {
	p := printer.Ctx(ctx)
	fields := strings.Fields(strings.TrimPrefix(text, "/"))
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "start":
		if len(fields) < 2 {
			return false, errors.New("usage: /start OWNER NAME")
		}
		name := strings.Join(fields[2:], " ")
		if err := reg.StartMeeting(ctx, cmd.channel, cmd.network, fields[1], name); err != nil {
			return false, err
		}
		p.Successf("Meeting %s started at %s", name, time.Now().Format(time.RFC1123))
	case "end":
		if len(fields) != 2 {
			return false, errors.New("usage: /end NICK")
		}
		if err := reg.EndMeeting(ctx, cmd.channel, cmd.network, fields[1]); err != nil {
			return false, err
		}
		p.Successf("Ended meeting at %s", time.Now().Format(time.RFC1123))
	case "delete":
		save := !(len(fields) > 1 && fields[1] == "nosave")
		if err := reg.DeleteMeeting(ctx, cmd.channel, cmd.network, save); err != nil {
			return false, err
		}
		p.Successf("Deleted meeting on %s %s", cmd.network, cmd.channel)
	case "list":
		keys := reg.List()
		if len(keys) == 0 {
			p.Infof("No currently active meetings.")
			return false, nil
		}
		for _, k := range keys {
			p.Printf("%s", k)
		}
	case "recent":
		for _, s := range reg.Recent() {
			p.Printf("%s  %s", s.At.Format(time.DateTime), s.Key)
		}
	default:
		return false, fmt.Errorf("unknown command /%s", fields[0])
	}

	return false, nil
}
