package commands

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/aliceinwire/meetbot2/internal/core/styles"
)

// consoleTransport prints what the bot would send to a channel. It also
// remembers the nicks it has seen so #chair can warn about unknown nicks.
type consoleTransport struct {
	mu      sync.Mutex
	w       io.Writer
	channel string
	botNick string
	topic   string
	nicks   map[string]struct{}
	replies int
	now     func() time.Time
}

func newConsoleTransport(w io.Writer, channel, botNick, topic string) *consoleTransport {
	return &consoleTransport{
		w:       w,
		channel: channel,
		botNick: botNick,
		topic:   topic,
		nicks:   make(map[string]struct{}),
		now:     time.Now,
	}
}

func (t *consoleTransport) prefix() string {
	return styles.TimeStyle.Render(t.now().Format("15:04:05")) + " " + styles.ChannelStyle.Render(t.channel)
}

func (t *consoleTransport) SendReply(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.replies++
	_, _ = fmt.Fprintf(t.w, "%s %s %s\n",
		t.prefix(),
		styles.NickStyle(t.botNick).Render("<"+t.botNick+">"),
		styles.ReplyStyle.Render(text),
	)
}

func (t *consoleTransport) SetTopic(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.topic = text
	_, _ = fmt.Fprintf(t.w, "%s %s\n", t.prefix(), styles.TopicStyle.Render("-- topic is now: "+text))
}

func (t *consoleTransport) Topic() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.topic
}

func (t *consoleTransport) ChannelNicks() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	nicks := make([]string, 0, len(t.nicks))
	for n := range t.nicks {
		nicks = append(nicks, n)
	}
	sort.Strings(nicks)
	return nicks
}

func (t *consoleTransport) see(nick string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nicks[nick] = struct{}{}
}

func (t *consoleTransport) replyCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replies
}
