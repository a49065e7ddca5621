// Package config handles configuration loading and validation for meetbot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/internal/core/minutes"
	"github.com/aliceinwire/meetbot2/internal/core/styles"
)

// DefaultHistoryMax is the number of finished meetings kept in the history.
const DefaultHistoryMax = 200

// Config holds the application configuration.
type Config struct {
	LogDir                        string         `yaml:"log_dir"`
	LogURLPrefix                  string         `yaml:"log_url_prefix"`
	FilenamePattern               string         `yaml:"filename_pattern"`
	SpecialChannels               []string       `yaml:"special_channels"`
	SpecialChannelFilenamePattern string         `yaml:"special_channel_filename_pattern"`
	InfoURL                       string         `yaml:"info_url"`
	TimeZone                      string         `yaml:"time_zone"`
	StartMeetingMessage           string         `yaml:"start_meeting_message"`
	EndMeetingMessage             string         `yaml:"end_meeting_message"`
	DefaultVoteOptions            []string       `yaml:"default_vote_options"`
	MeetingLength                 time.Duration  `yaml:"meeting_length"`
	WriteRawLog                   bool           `yaml:"write_raw_log"`
	LogReplies                    bool           `yaml:"log_replies"`
	BotNick                       string         `yaml:"bot_nick"`
	RestrictPerm                  string         `yaml:"restrict_perm"` // octal, e.g. "077"
	Writers                       []Writer       `yaml:"writers"`
	HistoryMax                    int            `yaml:"history_max"`
	Vars                          map[string]any `yaml:"vars"`
	VarsFiles                     []string       `yaml:"vars_files"`
	Theme                         string         `yaml:"theme"`
	DataDir                       string         `yaml:"-"` // set by caller, not from config file
}

// Writer selects one output writer. Extension and Realtime override the
// defaults of the kind.
type Writer struct {
	Kind      string `yaml:"kind"`
	Extension string `yaml:"extension"`
	Realtime  *bool  `yaml:"realtime"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogDir:                        ".",
		FilenamePattern:               meeting.DefaultFilenamePattern,
		SpecialChannels:               slices.Clone(meeting.DefaultSpecialChannels),
		SpecialChannelFilenamePattern: meeting.DefaultSpecialFilenamePattern,
		InfoURL:                       meeting.DefaultInfoURL,
		TimeZone:                      "UTC",
		StartMeetingMessage:           meeting.DefaultStartMessage,
		EndMeetingMessage:             meeting.DefaultEndMessage,
		DefaultVoteOptions:            slices.Clone(meeting.DefaultVoteOptions),
		MeetingLength:                 meeting.DefaultLength,
		BotNick:                       "meetbot",
		RestrictPerm:                  fmt.Sprintf("%03o", meeting.DefaultRestrictPerm),
		HistoryMax:                    DefaultHistoryMax,
		Theme:                         styles.DefaultTheme,
	}
}

// Load reads configuration from the given path. A missing file yields the
// defaults. Vars files are resolved relative to the config file and merged
// before the inline vars, which win on conflict.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	if len(cfg.VarsFiles) > 0 {
		vars, err := loadVarsFiles(filepath.Dir(configPath), cfg.VarsFiles)
		if err != nil {
			return nil, err
		}
		mergeMaps(vars, cfg.Vars)
		cfg.Vars = vars
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.LogDir == "" {
		c.LogDir = defaults.LogDir
	}
	if c.FilenamePattern == "" {
		c.FilenamePattern = defaults.FilenamePattern
	}
	if c.SpecialChannelFilenamePattern == "" {
		c.SpecialChannelFilenamePattern = defaults.SpecialChannelFilenamePattern
	}
	if c.TimeZone == "" {
		c.TimeZone = defaults.TimeZone
	}
	if c.StartMeetingMessage == "" {
		c.StartMeetingMessage = defaults.StartMeetingMessage
	}
	if c.EndMeetingMessage == "" {
		c.EndMeetingMessage = defaults.EndMeetingMessage
	}
	if len(c.DefaultVoteOptions) == 0 {
		c.DefaultVoteOptions = defaults.DefaultVoteOptions
	}
	if c.MeetingLength == 0 {
		c.MeetingLength = defaults.MeetingLength
	}
	if c.RestrictPerm == "" {
		c.RestrictPerm = defaults.RestrictPerm
	}
	if c.HistoryMax == 0 {
		c.HistoryMax = defaults.HistoryMax
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.LogDir == "" {
		return fmt.Errorf("log_dir cannot be empty")
	}

	if c.MeetingLength < 0 {
		return fmt.Errorf("meeting_length cannot be negative")
	}

	if c.HistoryMax < 0 {
		return fmt.Errorf("history_max cannot be negative")
	}

	if c.LogReplies && c.BotNick == "" {
		return fmt.Errorf("bot_nick is required when log_replies is enabled")
	}

	if _, err := c.RestrictMode(); err != nil {
		return fmt.Errorf("restrict_perm: %w", err)
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("theme: unknown theme %q (available: %s)", c.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	for i, w := range c.Writers {
		if !minutes.IsKind(w.Kind) {
			return fmt.Errorf("writers[%d]: unknown kind %q", i, w.Kind)
		}
	}

	return nil
}

// RestrictMode parses restrict_perm as octal permission bits.
func (c *Config) RestrictMode() (os.FileMode, error) {
	v, err := strconv.ParseUint(c.RestrictPerm, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q", c.RestrictPerm)
	}
	if v&^0o777 != 0 {
		return 0, fmt.Errorf("mode %q has bits outside 0777", c.RestrictPerm)
	}
	return os.FileMode(v), nil
}

// Location resolves time_zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// WriterSpecs returns the configured writers, or the defaults when none are
// configured.
func (c *Config) WriterSpecs() []minutes.Spec {
	if len(c.Writers) == 0 {
		return minutes.Defaults(c.WriteRawLog)
	}
	specs := make([]minutes.Spec, 0, len(c.Writers))
	for _, w := range c.Writers {
		specs = append(specs, minutes.Spec{Kind: w.Kind, Extension: w.Extension, Realtime: w.Realtime})
	}
	return specs
}

// MeetingOptions builds the per-session options. The writer summary logs
// through log.
func (c *Config) MeetingOptions(version string, log zerolog.Logger) (meeting.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return meeting.Options{}, fmt.Errorf("time_zone: %w", err)
	}
	restrict, err := c.RestrictMode()
	if err != nil {
		return meeting.Options{}, fmt.Errorf("restrict_perm: %w", err)
	}
	writers, err := minutes.BuildAll(c.WriterSpecs(), log)
	if err != nil {
		return meeting.Options{}, err
	}

	opts := meeting.Options{
		LogDir:                 c.LogDir,
		URLPrefix:              c.LogURLPrefix,
		FilenamePattern:        c.FilenamePattern,
		SpecialChannels:        slices.Clone(c.SpecialChannels),
		SpecialFilenamePattern: c.SpecialChannelFilenamePattern,
		InfoURL:                c.InfoURL,
		Location:               loc,
		StartMessage:           c.StartMeetingMessage,
		EndMessage:             c.EndMeetingMessage,
		DefaultVoteOptions:     slices.Clone(c.DefaultVoteOptions),
		Length:                 c.MeetingLength,
		RestrictPerm:           restrict,
		Version:                version,
		Vars:                   c.Vars,
		Writers:                writers,
	}
	if c.LogReplies {
		opts.BotNick = c.BotNick
	}
	return opts, nil
}

// HistoryFile returns the path to the meeting history JSON file.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}
