package initcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/aliceinwire/meetbot2/internal/core/config"
	"github.com/aliceinwire/meetbot2/internal/core/doctor"
	"github.com/aliceinwire/meetbot2/internal/core/styles"
	"github.com/aliceinwire/meetbot2/internal/printer"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config

	// Preset answers. Empty values fall back to the defaults.
	LogDir   string
	TimeZone string
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts}
}

// Defaults returns the answers used with --yes.
func (w *Wizard) Defaults() ConfigOptions {
	defaults := config.DefaultConfig()

	opts := ConfigOptions{
		LogDir:      defaults.LogDir,
		TimeZone:    defaults.TimeZone,
		WriteRawLog: true,
		Theme:       styles.DefaultTheme,
	}
	if w.opts.LogDir != "" {
		opts.LogDir = w.opts.LogDir
	}
	if w.opts.TimeZone != "" {
		opts.TimeZone = w.opts.TimeZone
	}
	return opts
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	p := printer.Ctx(ctx)

	if ConfigExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			p.Infof("Init cancelled")
			return nil
		}
	}

	answers := w.Defaults()
	if !w.opts.Yes {
		if err := w.prompt(&answers); err != nil {
			return err
		}
	}
	answers.LogDir = expandHome(answers.LogDir)

	if ConfigExists(w.opts.ConfigPath) {
		backupPath, err := BackupConfig(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		if backupPath != "" {
			p.Successf("Backed up config to: %s", backupPath)
		}
	}

	content, err := GenerateConfig(answers)
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}
	if err := WriteConfig(content, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	p.Successf("Created config: %s", w.opts.ConfigPath)

	if err := os.MkdirAll(answers.LogDir, 0o755); err != nil {
		p.Warnf("Failed to create log directory: %v", err)
	}

	p.Printf("")
	result := NewInitCheck(w.opts.ConfigPath, w.opts.DataDir).Run(ctx)

	p.Section(result.Name)
	for _, item := range result.Items {
		switch item.Status {
		case doctor.StatusPass:
			p.CheckItem(item.Label, item.Detail)
		case doctor.StatusWarn:
			p.WarnItem(item.Label, item.Detail)
		case doctor.StatusFail:
			p.FailItem(item.Label, item.Detail)
		}
	}

	w.printNextSteps(p)
	return nil
}

func (w *Wizard) prompt(answers *ConfigOptions) error {
	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Log directory").
				Description("Where minutes and logs are written").
				Value(&answers.LogDir).
				Validate(requireValue("log directory")),
			huh.NewInput().
				Title("Log URL prefix").
				Description("Public URL of the log directory (optional)").
				Value(&answers.LogURLPrefix),
			huh.NewInput().
				Title("Time zone").
				Description("IANA name, e.g. UTC or Europe/Berlin").
				Value(&answers.TimeZone).
				Validate(validateTimeZone),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Write a plain text log?").
				Description("Adds a .log.txt next to the HTML log").
				Value(&answers.WriteRawLog),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&answers.Theme),
		),
	)

	return form.Run()
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateTimeZone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown time zone %q", name)
	}
	return nil
}

func (w *Wizard) printNextSteps(p *printer.Printer) {
	p.Printf("")
	p.Section("Next Steps")
	p.Printf("  1. Run 'meetbot doctor' to check the setup")
	p.Printf("  2. Run 'meetbot console' and say 'you: #startmeeting Test' to try it out")
	p.Printf("  3. Edit %s to add writers and vars", w.opts.ConfigPath)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
