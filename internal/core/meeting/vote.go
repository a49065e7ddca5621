package meeting

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	startVoteRE    = regexp.MustCompile(`^(.*)\?\s*(.*)$`)
	choicesSplitRE = regexp.MustCompile(`[^\w+-]+`)
)

// Vote is an open vote: a question, its valid options and the current
// selection of every voter. A nick holds at most one selection.
type Vote struct {
	Question string
	Options  []string

	votes  map[string][]string // lower-cased option -> voters in voting order
	voters map[string]string   // nick -> lower-cased option
}

// Tally is the result for one option.
type Tally struct {
	Option string
	Voters []string
}

// ParseVote splits "#startvote" arguments into a question and options. The
// question is everything up to the last "?"; options are separated by any run
// of characters other than word characters, "+" and "-". An empty option list
// yields defaults. ok is false when there is no "?" or no question.
func ParseVote(line string, defaults []string) (question string, options []string, ok bool) {
	m := startVoteRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", nil, false
	}
	question = strings.TrimSpace(m[1])
	if question == "" {
		return "", nil, false
	}

	seen := make(map[string]bool)
	for _, opt := range choicesSplitRE.Split(m[2], -1) {
		key := strings.ToLower(opt)
		if opt == "" || seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, opt)
	}
	if len(options) == 0 {
		options = slices.Clone(defaults)
	}
	return question, options, true
}

// NewVote opens a vote.
func NewVote(question string, options []string) *Vote {
	return &Vote{
		Question: question,
		Options:  slices.Clone(options),
		votes:    make(map[string][]string),
		voters:   make(map[string]string),
	}
}

// Cast records nick's choice, retracting any earlier choice. Choices match
// options case-insensitively. It returns false for an invalid choice.
func (v *Vote) Cast(nick, choice string) bool {
	key := strings.ToLower(strings.TrimSpace(choice))
	if !v.valid(key) {
		return false
	}

	if old, ok := v.voters[nick]; ok {
		v.votes[old] = slices.DeleteFunc(v.votes[old], func(n string) bool { return n == nick })
	}
	v.voters[nick] = key
	v.votes[key] = append(v.votes[key], nick)
	return true
}

func (v *Vote) valid(key string) bool {
	return slices.ContainsFunc(v.Options, func(o string) bool { return strings.ToLower(o) == key })
}

// Choice returns the option nick currently votes for.
func (v *Vote) Choice(nick string) (string, bool) {
	key, ok := v.voters[nick]
	if !ok {
		return "", false
	}
	return v.label(key), true
}

func (v *Vote) label(key string) string {
	for _, o := range v.Options {
		if strings.ToLower(o) == key {
			return o
		}
	}
	return key
}

// Tallies returns the voters of every option in declared option order.
func (v *Vote) Tallies() []Tally {
	out := make([]Tally, 0, len(v.Options))
	for _, o := range v.Options {
		out = append(out, Tally{Option: o, Voters: slices.Clone(v.votes[strings.ToLower(o)])})
	}
	return out
}

// Summary formats the counts, e.g. "yes: 0, no: 2".
func (v *Vote) Summary() string {
	parts := make([]string, 0, len(v.Options))
	for _, t := range v.Tallies() {
		parts = append(parts, t.Option+": "+strconv.Itoa(len(t.Voters)))
	}
	return strings.Join(parts, ", ")
}
