package initcmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

// ConfigOptions holds the answers collected by the wizard.
type ConfigOptions struct {
	LogDir       string
	LogURLPrefix string
	TimeZone     string
	WriteRawLog  bool
	Theme        string
}

var configTemplate = tmpl.MustCompile("config", `# meetbot configuration
# Run 'meetbot config validate' after editing.

# Directory minutes and logs are written to.
log_dir: {{ .LogDir }}

# Public URL of log_dir, used for links in the end meeting message.
log_url_prefix: {{ .LogURLPrefix }}

# Time zone used for timestamps in the minutes.
time_zone: {{ .TimeZone }}

# Also write a plain text log (.log.txt).
write_raw_log: {{ .WriteRawLog }}

# Terminal color theme for the console and CLI output.
theme: {{ .Theme }}

# meeting_length: 60m
# default_vote_options: [Yes, No]
# special_channels: ["#*-meeting"]
#
# writers:
#   - kind: htmllog
#   - kind: html
#   - kind: text
#   - kind: markdown
#
# vars:
#   team: infra
`)

// yamlScalar renders s as a YAML scalar, quoting it when needed.
func yamlScalar(s string) string {
	out, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Sprintf("%q", s)
	}
	return strings.TrimSuffix(string(out), "\n")
}

// GenerateConfig renders the config file for opts.
func GenerateConfig(opts ConfigOptions) (string, error) {
	return configTemplate.Execute(map[string]any{
		"LogDir":       yamlScalar(opts.LogDir),
		"LogURLPrefix": yamlScalar(opts.LogURLPrefix),
		"TimeZone":     yamlScalar(opts.TimeZone),
		"WriteRawLog":  opts.WriteRawLog,
		"Theme":        yamlScalar(opts.Theme),
	})
}

// WriteConfig writes content to path, creating parent directories.
func WriteConfig(content, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
