package initcmd

import (
	"context"
	"os"

	"github.com/aliceinwire/meetbot2/internal/core/config"
	"github.com/aliceinwire/meetbot2/internal/core/doctor"
)

// InitCheck validates the init wizard results.
type InitCheck struct {
	configPath string
	dataDir    string
}

// NewInitCheck creates a new init validation check.
func NewInitCheck(configPath, dataDir string) *InitCheck {
	return &InitCheck{configPath: configPath, dataDir: dataDir}
}

func (c *InitCheck) Name() string {
	return "Init Validation"
}

func (c *InitCheck) Run(_ context.Context) doctor.Result {
	result := doctor.Result{Name: c.Name()}

	if _, err := os.Stat(c.configPath); err != nil {
		result.Items = append(result.Items, doctor.CheckItem{
			Label:  "Config file",
			Status: doctor.StatusFail,
			Detail: c.configPath + " not found",
		})
		return result
	}
	result.Items = append(result.Items, doctor.CheckItem{
		Label:  "Config file",
		Status: doctor.StatusPass,
		Detail: c.configPath,
	})

	cfg, err := config.Load(c.configPath, c.dataDir)
	if err != nil {
		result.Items = append(result.Items, doctor.CheckItem{
			Label:  "Config loads",
			Status: doctor.StatusFail,
			Detail: err.Error(),
		})
		return result
	}
	result.Items = append(result.Items, doctor.CheckItem{
		Label:  "Config loads",
		Status: doctor.StatusPass,
	})

	result.Items = append(result.Items, c.checkLogDir(cfg.LogDir))
	return result
}

func (c *InitCheck) checkLogDir(dir string) doctor.CheckItem {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return doctor.CheckItem{
			Label:  "Log directory",
			Status: doctor.StatusWarn,
			Detail: dir + " does not exist yet; run 'meetbot doctor --autofix'",
		}
	case err != nil:
		return doctor.CheckItem{
			Label:  "Log directory",
			Status: doctor.StatusFail,
			Detail: err.Error(),
		}
	case !info.IsDir():
		return doctor.CheckItem{
			Label:  "Log directory",
			Status: doctor.StatusFail,
			Detail: dir + " is not a directory",
		}
	}
	return doctor.CheckItem{
		Label:  "Log directory",
		Status: doctor.StatusPass,
		Detail: dir,
	}
}
