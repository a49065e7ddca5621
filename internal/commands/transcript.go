package commands

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	stampRE  = regexp.MustCompile(`^\[?(\d{1,2}):(\d{2})(?::(\d{2}))?\]?\s+(.*)$`)
	msgRE    = regexp.MustCompile(`^<[@+%]?([^>\s]+)>\s?(.*)$`)
	actionRE = regexp.MustCompile(`^\*\s+(\S+)\s+(.*)$`)
	plainRE  = regexp.MustCompile(`^([^\s:<>*\[\]]+):\s(.*)$`)
)

// chatLine is one message from a transcript or the console.
type chatLine struct {
	Nick string
	Text string
	Time time.Time // zero when the source had no timestamp
}

// parseChatLine understands "<nick> text", "* nick action" and "nick: text",
// each optionally preceded by an "[HH:MM:SS]" or "HH:MM" stamp. Lines that
// match none of these, like join and part notices, are reported as not ok.
func parseChatLine(raw string, day time.Time) (chatLine, bool) {
	raw = strings.TrimRight(raw, "\r\n")

	var stamp time.Time
	if m := stampRE.FindStringSubmatch(raw); m != nil {
		h, _ := strconv.Atoi(m[1])
		mi, _ := strconv.Atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = strconv.Atoi(m[3])
		}
		if h < 24 && mi < 60 && sec < 60 {
			y, mo, d := day.Date()
			stamp = time.Date(y, mo, d, h, mi, sec, 0, day.Location())
			raw = m[4]
		}
	}

	if m := msgRE.FindStringSubmatch(raw); m != nil {
		return chatLine{Nick: m[1], Text: m[2], Time: stamp}, true
	}
	if m := actionRE.FindStringSubmatch(raw); m != nil {
		return chatLine{Nick: m[1], Text: "\x01ACTION " + m[2] + "\x01", Time: stamp}, true
	}
	if m := plainRE.FindStringSubmatch(raw); m != nil {
		return chatLine{Nick: m[1], Text: m[2], Time: stamp}, true
	}
	return chatLine{}, false
}

// parseTranscript reads a chat log. Stamps are placed on day; a stamp earlier
// than the previous one moves to the next day. Lines without a stamp get the
// previous line's time plus one second.
func parseTranscript(r io.Reader, day time.Time) ([]chatLine, error) {
	var (
		lines   []chatLine
		last    = day
		offset  time.Duration
		scanner = bufio.NewScanner(r)
		lineNum int
	)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNum++
		cl, ok := parseChatLine(scanner.Text(), day)
		if !ok {
			continue
		}

		if cl.Time.IsZero() {
			cl.Time = last.Add(time.Second)
		} else {
			cl.Time = cl.Time.Add(offset)
			if cl.Time.Before(last) {
				offset += 24 * time.Hour
				cl.Time = cl.Time.Add(24 * time.Hour)
			}
		}
		last = cl.Time
		lines = append(lines, cl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript line %d: %w", lineNum+1, err)
	}
	return lines, nil
}
