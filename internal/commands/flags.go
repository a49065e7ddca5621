package commands

import (
	"os"
	"path/filepath"

	"github.com/aliceinwire/meetbot2/internal/core/config"
)

// Flags holds the global options shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string // "" logs to <DataDir>/meetbot.log, "-" to stderr
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook.
	Config *config.Config
}

// LogPath resolves LogFile to the file the logger writes to. An empty
// result means stderr.
func (f *Flags) LogPath() string {
	switch f.LogFile {
	case "":
		return filepath.Join(f.DataDir, "meetbot.log")
	case "-":
		return ""
	default:
		return f.LogFile
	}
}

// xdgDir returns $env, falling back to fallback under the home directory.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, fallback...)...)
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/meetbot/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "meetbot", "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/meetbot, where history and the log
// file live.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "meetbot")
}
