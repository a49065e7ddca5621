package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVote(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		question string
		options  []string
		ok       bool
	}{
		{
			name:     "explicit options",
			line:     "Continue? yes, no",
			question: "Continue",
			options:  []string{"yes", "no"},
			ok:       true,
		},
		{
			name:     "defaults when no options",
			line:     "Ship it?",
			question: "Ship it",
			options:  []string{"Yes", "No"},
			ok:       true,
		},
		{
			name:     "question up to last question mark",
			line:     "Really? Sure? +1 -1 0",
			question: "Really? Sure",
			options:  []string{"+1", "-1", "0"},
			ok:       true,
		},
		{
			name:     "duplicates dropped case-insensitively",
			line:     "Pick? a/b/A/c",
			question: "Pick",
			options:  []string{"a", "b", "c"},
			ok:       true,
		},
		{name: "no question mark", line: "Continue yes no"},
		{name: "empty question", line: "? yes no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, opts, ok := ParseVote(tt.line, DefaultVoteOptions)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.question, q)
			assert.Equal(t, tt.options, opts)
		})
	}
}

func TestVoteCast(t *testing.T) {
	v := NewVote("Continue", []string{"yes", "no"})

	assert.True(t, v.Cast("bob", "YES"))
	assert.True(t, v.Cast("carol", "no"))
	assert.False(t, v.Cast("dave", "maybe"))

	choice, ok := v.Choice("bob")
	require.True(t, ok)
	assert.Equal(t, "yes", choice)

	// A second vote replaces the first.
	assert.True(t, v.Cast("bob", "no"))
	assert.Equal(t, []Tally{
		{Option: "yes", Voters: []string{}},
		{Option: "no", Voters: []string{"carol", "bob"}},
	}, normalizeTallies(v.Tallies()))
	assert.Equal(t, "yes: 0, no: 2", v.Summary())

	_, ok = v.Choice("dave")
	assert.False(t, ok)
}

func normalizeTallies(in []Tally) []Tally {
	for i := range in {
		if in[i].Voters == nil {
			in[i].Voters = []string{}
		}
	}
	return in
}
