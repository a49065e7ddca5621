package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/internal/core/minutes"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, ".", cfg.LogDir)
	assert.Equal(t, meeting.DefaultFilenamePattern, cfg.FilenamePattern)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, time.Hour, cfg.MeetingLength)
	assert.Equal(t, "077", cfg.RestrictPerm)
	assert.Equal(t, DefaultHistoryMax, cfg.HistoryMax)
	assert.Equal(t, []string{"Yes", "No"}, cfg.DefaultVoteOptions)
	assert.Equal(t, filepath.Join(dataDir, "history.json"), cfg.HistoryFile())
	assert.Equal(t, "tokyo-night", cfg.Theme)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeTestFile(path, `
log_dir: /srv/meetings
log_url_prefix: https://meetings.example.org/
time_zone: Europe/Berlin
meeting_length: 30m
restrict_perm: "027"
write_raw_log: true
default_vote_options: [aye, nay]
writers:
  - kind: markdown
  - kind: text
    extension: .minutes.txt
    realtime: true
`))

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/meetings", cfg.LogDir)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
	assert.Equal(t, 30*time.Minute, cfg.MeetingLength)
	assert.Equal(t, []string{"aye", "nay"}, cfg.DefaultVoteOptions)
	assert.Equal(t, dir, cfg.DataDir)

	mode, err := cfg.RestrictMode()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o027), mode)

	specs := cfg.WriterSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, minutes.KindMarkdown, specs[0].Kind)
	assert.Equal(t, ".minutes.txt", specs[1].Extension)
	require.NotNil(t, specs[1].Realtime)
	assert.True(t, *specs[1].Realtime)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, writeTestFile(path, "log_dir: [\n"))

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_VarsFilesMergeWithInline(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeTestFile(filepath.Join(dir, "team.yaml"), "team: infra\nwiki: https://wiki.example.org\n"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, writeTestFile(path, "vars_files: [team.yaml]\nvars:\n  team: platform\n"))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "platform", cfg.Vars["team"])
	assert.Equal(t, "https://wiki.example.org", cfg.Vars["wiki"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory cannot be empty",
		},
		{
			name:    "negative length",
			mutate:  func(c *Config) { c.MeetingLength = -time.Minute },
			wantErr: "meeting_length cannot be negative",
		},
		{
			name:    "negative history",
			mutate:  func(c *Config) { c.HistoryMax = -1 },
			wantErr: "history_max cannot be negative",
		},
		{
			name:    "bad octal",
			mutate:  func(c *Config) { c.RestrictPerm = "089" },
			wantErr: "restrict_perm",
		},
		{
			name:    "mode out of range",
			mutate:  func(c *Config) { c.RestrictPerm = "7777" },
			wantErr: "outside 0777",
		},
		{
			name:    "log replies without nick",
			mutate:  func(c *Config) { c.LogReplies = true; c.BotNick = "" },
			wantErr: "bot_nick is required",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Theme = "solarized" },
			wantErr: `unknown theme "solarized"`,
		},
		{
			name:    "unknown writer",
			mutate:  func(c *Config) { c.Writers = []Writer{{Kind: "pdf"}} },
			wantErr: `writers[0]: unknown kind "pdf"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriterSpecsDefaults(t *testing.T) {
	cfg := validConfig(t)
	assert.Equal(t, minutes.Defaults(false), cfg.WriterSpecs())

	cfg.WriteRawLog = true
	assert.Equal(t, minutes.Defaults(true), cfg.WriterSpecs())
}

func TestMeetingOptions(t *testing.T) {
	cfg := validConfig(t)
	cfg.TimeZone = "America/New_York"
	cfg.LogURLPrefix = "https://logs.example.org"
	cfg.Vars = map[string]any{"team": "infra"}

	opts, err := cfg.MeetingOptions("1.2.3", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", opts.Location.String())
	assert.Equal(t, "https://logs.example.org", opts.URLPrefix)
	assert.Equal(t, "1.2.3", opts.Version)
	assert.Equal(t, os.FileMode(0o077), opts.RestrictPerm)
	assert.Empty(t, opts.BotNick, "replies are not logged unless log_replies is set")
	assert.Equal(t, "infra", opts.Vars["team"])
	require.Len(t, opts.Writers, 3)
	assert.Equal(t, ".log.html", opts.Writers[0].Extension)

	cfg.LogReplies = true
	opts, err = cfg.MeetingOptions("1.2.3", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "meetbot", opts.BotNick)

	cfg.TimeZone = "Mars/Olympus"
	_, err = cfg.MeetingOptions("1.2.3", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time_zone")
}
