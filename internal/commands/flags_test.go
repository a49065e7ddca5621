package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags_LogPath(t *testing.T) {
	tests := []struct {
		logFile string
		want    string
	}{
		{"", filepath.Join("/data", "meetbot.log")},
		{"-", ""},
		{"/var/log/meetbot.log", "/var/log/meetbot.log"},
	}

	for _, tt := range tests {
		t.Run(tt.logFile, func(t *testing.T) {
			f := &Flags{DataDir: "/data", LogFile: tt.logFile}
			assert.Equal(t, tt.want, f.LogPath())
		})
	}
}

func TestDefaultDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/share")

	assert.Equal(t, filepath.Join("/cfg", "meetbot", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/share", "meetbot"), DefaultDataDir())
}
