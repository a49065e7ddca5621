package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"

	"github.com/aliceinwire/meetbot2/internal/core/meeting"
	"github.com/aliceinwire/meetbot2/internal/core/minutes"
	"github.com/aliceinwire/meetbot2/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// template syntax, channel patterns, the time zone and file accessibility. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check). This calls Validate() first for basic
// structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateVarsFiles(configPath),
		criterio.Run("time_zone", c.TimeZone, validTimeZone),
		c.validateSpecialChannels(),
		c.validateTemplates(),
		c.validateWriters(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.LogURLPrefix == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Links",
			Item:     "log_url_prefix",
			Message:  "not set; links in the end meeting message are relative paths",
		})
	}

	if c.LogReplies && !c.WriteRawLog && len(c.Writers) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Writers",
			Item:     "log_replies",
			Message:  "bot replies are logged but write_raw_log is off; they only appear in the HTML log",
		})
	}

	for i, w := range c.Writers {
		if w.Extension != "" && !strings.HasPrefix(w.Extension, ".") {
			warnings = append(warnings, ValidationWarning{
				Category: "Writers",
				Item:     fmt.Sprintf("writers[%d]", i),
				Message:  fmt.Sprintf("extension %q does not start with a dot and is appended to the base name as is", w.Extension),
			})
		}
	}

	return warnings
}

// validateFileAccess checks the config file, the log directory and the data
// directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("log_dir", c.LogDir, isDirectoryOrNotExist),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func validTimeZone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown time zone %q", name)
	}
	return nil
}

func (c *Config) validateVarsFiles(configPath string) error {
	if len(c.VarsFiles) == 0 {
		return nil
	}

	configDir := filepath.Dir(configPath)
	var errs criterio.FieldErrorsBuilder

	for i, file := range c.VarsFiles {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}

		if _, err := os.Stat(path); err != nil {
			errs = errs.Append(fmt.Sprintf("vars_files[%d]", i), fmt.Errorf("file not found: %s", file))
		}
	}

	return errs.ToError()
}

// validateSpecialChannels checks that every special channel is a valid glob.
func (c *Config) validateSpecialChannels() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.SpecialChannels {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("special_channels[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}

// validateTemplates renders every configured template against placeholder
// data, so both syntax errors and unknown fields are reported.
func (c *Config) validateTemplates() error {
	var errs criterio.FieldErrorsBuilder

	filenames := map[string]string{
		"filename_pattern":                 c.FilenamePattern,
		"special_channel_filename_pattern": c.SpecialChannelFilenamePattern,
	}
	for field, pattern := range filenames {
		if err := tmpl.Validate(pattern, meeting.FilenameData{}); err != nil {
			errs = errs.Append(field, fmt.Errorf("template error: %w", err))
		}
	}

	repl := meeting.Replacements{Vars: c.Vars}
	messages := map[string]string{
		"start_meeting_message": c.StartMeetingMessage,
		"end_meeting_message":   c.EndMeetingMessage,
	}
	for field, message := range messages {
		if err := tmpl.Validate(message, repl); err != nil {
			errs = errs.Append(field, fmt.Errorf("template error: %w", err))
		}
	}

	return errs.ToError()
}

// validateWriters rejects writers that would write the same file twice.
func (c *Config) validateWriters() error {
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]int)
	for i, spec := range c.WriterSpecs() {
		entry, err := minutes.Build(spec, zerolog.Nop())
		if err != nil {
			errs = errs.Append(fmt.Sprintf("writers[%d].kind", i), err)
			continue
		}
		ext := entry.Extension
		if j, dup := seen[ext]; dup {
			errs = errs.Append(fmt.Sprintf("writers[%d].extension", i), fmt.Errorf("%q already used by writers[%d]", ext, j))
			continue
		}
		seen[ext] = i
	}
	return errs.ToError()
}
