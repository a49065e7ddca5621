package meeting

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/muesli/reflow/wordwrap"
)

var (
	commandRE     = regexp.MustCompile(`^#(\w+)[ \t]*(.*)`)
	nickSplitRE   = regexp.MustCompile(`[, ]+`)
	meetingNameRE = regexp.MustCompile(`[^a-z0-9_]`)
)

// showVoteWidth bounds the nick list in one #showvote reply so the whole
// message stays under the transport's message size limit.
const showVoteWidth = 400

// invocation is one parsed command line.
type invocation struct {
	nick    string
	line    string // argument text after the command word
	lineNum int
	now     time.Time
}

// handler applies a command. Only persistence failures are returned;
// unauthorized or malformed commands are ignored or answered with a reply.
type handler func(s *Session, inv invocation) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"startmeeting": cmdStartMeeting,
		"endmeeting":   cmdEndMeeting,
		"topic":        cmdTopic,
		"meetingtopic": cmdMeetingTopic,
		"chair":        cmdChair,
		"unchair":      cmdUnchair,
		"meetingname":  cmdMeetingName,
		"undo":         cmdUndo,
		"lurk":         cmdLurk,
		"unlurk":       cmdUnlurk,
		"save":         cmdSave,
		"restrictlogs": cmdRestrictLogs,
		"nick":         cmdNick,
		"startvote":    cmdStartVote,
		"vote":         cmdVote,
		"showvote":     cmdShowVote,
		"endvote":      cmdEndVote,
		"commands":     cmdCommands,

		"action": recordItem(KindAction, false),
		"info":   recordItem(KindInfo, false),
		"idea":   recordItem(KindIdea, false),
		"help":   recordItem(KindHelp, false),
		"halp":   recordItem(KindHelp, false),
		"link":   recordItem(KindLink, false),

		"agreed":   recordItem(KindAgreed, true),
		"agree":    recordItem(KindAgreed, true),
		"accepted": recordItem(KindAccepted, true),
		"accept":   recordItem(KindAccepted, true),
		"rejected": recordItem(KindRejected, true),
		"reject":   recordItem(KindRejected, true),
	}
}

// Commands returns every recognized command word, sorted.
func Commands() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Process handles one chat line: it is appended to the raw log, any command
// it carries is applied, a line starting with a URL becomes a link item, and
// the realtime writers are saved. Lines arriving after the meeting ended are
// ignored. The returned error is always a persistence failure.
func (s *Session) Process(nick, text string, now time.Time) error {
	if s.over {
		return nil
	}

	now = now.In(s.opts.Location)
	lineNum := s.AddRawLine(nick, text, now)

	if m := commandRE.FindStringSubmatch(text); m != nil {
		name := strings.ToLower(m[1])
		if h, ok := handlers[name]; ok {
			s.log.Debug().Str("nick", nick).Str("command", name).Int("line", lineNum).Msg("command")
			if err := h(s, invocation{nick: nick, line: m[2], lineNum: lineNum, now: now}); err != nil {
				return err
			}
		}
	} else if HasURLScheme(strings.TrimSpace(text)) {
		s.addToMinutes(NewItem(KindLink, nick, text, lineNum, now))
	}

	if s.over {
		return nil
	}
	_, err := s.Save(true)
	return err
}

func recordItem(kind Kind, chairOnly bool) handler {
	return func(s *Session, inv invocation) error {
		if chairOnly && !s.IsChair(inv.nick) {
			return nil
		}
		s.addToMinutes(NewItem(kind, inv.nick, inv.line, inv.lineNum, inv.now))
		return nil
	}
}

func cmdStartMeeting(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) || !s.startTime.IsZero() {
		return nil
	}
	s.startTime = inv.now
	s.announce(s.opts.StartMessage)
	if strings.TrimSpace(inv.line) != "" {
		if err := cmdMeetingTopic(s, inv); err != nil {
			return err
		}
		return cmdMeetingName(s, inv)
	}
	return nil
}

// cmdEndMeeting lets chairs end the meeting at any time and anyone else once
// the scheduled length has passed.
func cmdEndMeeting(s *Session, inv invocation) error {
	if s.startTime.IsZero() {
		return nil
	}
	if !s.IsChair(inv.nick) && inv.now.Before(s.startTime.Add(s.opts.Length)) {
		return nil
	}

	s.endTime = inv.now
	if _, err := s.Save(false); err != nil {
		s.endTime = time.Time{}
		return err
	}
	if s.oldTopic != "" {
		s.setTopic(s.oldTopic)
	}
	s.announce(s.opts.EndMessage)
	s.over = true
	return nil
}

func cmdTopic(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) {
		return nil
	}
	s.currentTopic = strings.TrimSpace(inv.line)
	s.addToMinutes(NewItem(KindTopic, inv.nick, inv.line, inv.lineNum, inv.now))
	s.applyTopic()
	return nil
}

func cmdMeetingTopic(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) {
		return nil
	}
	line := strings.TrimSpace(inv.line)
	switch strings.ToLower(line) {
	case "", "none", "unset":
		s.meetingTopic = ""
	default:
		s.meetingTopic = line
	}
	s.applyTopic()
	return nil
}

func cmdChair(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) {
		return nil
	}
	present, known := s.channelNicks()
	for _, chair := range nickSplitRE.Split(strings.TrimSpace(inv.line), -1) {
		if chair == "" || chair == s.owner || slices.Contains(s.chairs, chair) {
			continue
		}
		if known && !slices.Contains(present, chair) {
			s.reply("Warning: Nick not in channel: " + chair)
		}
		s.addNick(chair, 0)
		s.chairs = append(s.chairs, chair)
	}
	s.reply("Current chairs: " + strings.Join(s.Chairs(), " "))
	return nil
}

func cmdUnchair(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) {
		return nil
	}
	for _, chair := range strings.Fields(inv.line) {
		s.chairs = slices.DeleteFunc(s.chairs, func(c string) bool { return c == chair })
	}
	s.reply("Current chairs: " + strings.Join(s.Chairs(), " "))
	return nil
}

// cmdMeetingName stores a filesystem safe name used in artifact paths.
func cmdMeetingName(s *Session, inv invocation) error {
	name := strings.Join(strings.Fields(strings.ToLower(inv.line)), "_")
	s.meetingName = meetingNameRE.ReplaceAllString(name, "_")
	s.reply(fmt.Sprintf("The meeting name has been set to '%s'", s.meetingName))
	return nil
}

func cmdUndo(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) || len(s.minutes) == 0 {
		return nil
	}
	last := s.minutes[len(s.minutes)-1]
	s.reply("Removing item from minutes: " + last.String())
	s.minutes = s.minutes[:len(s.minutes)-1]
	return nil
}

func cmdLurk(s *Session, inv invocation) error {
	if s.IsChair(inv.nick) {
		s.lurk = true
	}
	return nil
}

func cmdUnlurk(s *Session, inv invocation) error {
	if s.IsChair(inv.nick) {
		s.lurk = false
	}
	return nil
}

func cmdSave(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) || s.startTime.IsZero() {
		return nil
	}
	_, err := s.Save(false)
	return err
}

func cmdRestrictLogs(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) {
		return nil
	}
	s.restrictLogs = true
	s.reply(fmt.Sprintf("Restricting permissions on minutes: -%#o on next #save", s.opts.RestrictPerm))
	return nil
}

// cmdNick marks nicks as present without them saying anything.
func cmdNick(s *Session, inv invocation) error {
	for _, nick := range nickSplitRE.Split(strings.TrimSpace(inv.line), -1) {
		if nick != "" {
			s.addNick(nick, 0)
		}
	}
	return nil
}

func cmdStartVote(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) {
		s.reply("Only the meeting chair may start a vote.")
		return nil
	}
	if s.vote != nil {
		s.reply(fmt.Sprintf("Already voting on '%s'", s.vote.Question))
		return nil
	}
	question, options, ok := ParseVote(inv.line, s.opts.DefaultVoteOptions)
	if !ok {
		s.reply("Unable to parse vote topic and options.")
		return nil
	}
	s.vote = NewVote(question, options)
	s.reply(fmt.Sprintf("Begin voting on: %s? Valid vote options are %s.", question, strings.Join(options, ", ")))
	s.reply("Vote using '#vote OPTION'. Only your last vote counts.")
	return nil
}

func cmdVote(s *Session, inv invocation) error {
	if s.vote == nil {
		return nil
	}
	if !s.vote.Cast(inv.nick, inv.line) {
		s.reply(fmt.Sprintf("%s: %s is not a valid option. Valid options are %s.",
			inv.nick, strings.TrimSpace(inv.line), strings.Join(s.vote.Options, ", ")))
	}
	return nil
}

func cmdShowVote(s *Session, _ invocation) error {
	if s.vote == nil {
		return nil
	}
	s.showVote()
	return nil
}

func (s *Session) showVote() {
	for _, t := range s.vote.Tallies() {
		prefix := fmt.Sprintf("%s (%d)", t.Option, len(t.Voters))
		if len(t.Voters) == 0 {
			s.reply(prefix)
			continue
		}
		wrapped := wordwrap.String(strings.Join(t.Voters, ", "), showVoteWidth)
		for _, segment := range strings.Split(wrapped, "\n") {
			s.reply(prefix + ": " + strings.TrimSpace(segment))
		}
	}
}

func cmdEndVote(s *Session, inv invocation) error {
	if !s.IsChair(inv.nick) || s.vote == nil {
		return nil
	}
	header := fmt.Sprintf(`Voted on "%s?" Results are`, s.vote.Question)
	s.reply(header)
	s.showVote()
	s.addToMinutes(NewItem(KindVote, inv.nick, header+" "+s.vote.Summary(), inv.lineNum, inv.now))
	s.vote = nil
	return nil
}

func cmdCommands(s *Session, _ invocation) error {
	names := Commands()
	for i, name := range names {
		names[i] = "#" + name
	}
	s.reply("Available commands: " + strings.Join(names, " "))
	return nil
}
