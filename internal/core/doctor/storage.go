package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/aliceinwire/meetbot2/internal/core/history"
)

// StorageCheck verifies that minutes and history can be written.
type StorageCheck struct {
	logDir  string
	dataDir string
	history history.Store
	autofix bool
}

// NewStorageCheck creates a storage check. With autofix, missing
// directories are created.
func NewStorageCheck(logDir, dataDir string, store history.Store, autofix bool) *StorageCheck {
	return &StorageCheck{logDir: logDir, dataDir: dataDir, history: store, autofix: autofix}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	result.Items = append(result.Items,
		c.checkDir("log_dir", c.logDir),
		c.checkDir("data_dir", c.dataDir),
	)

	if c.history != nil {
		entries, err := c.history.List(ctx)
		if err != nil {
			result.Items = append(result.Items, CheckItem{Label: "history", Status: StatusFail, Detail: err.Error()})
		} else {
			result.Items = append(result.Items, CheckItem{
				Label:  "history",
				Status: StatusPass,
				Detail: fmt.Sprintf("%d meeting(s) recorded", len(entries)),
			})
		}
	}

	return result
}

func (c *StorageCheck) checkDir(label, dir string) CheckItem {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if !c.autofix {
			return CheckItem{Label: label, Status: StatusWarn, Detail: dir + " does not exist", Fixable: true}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return CheckItem{Label: label, Status: StatusFail, Detail: err.Error()}
		}
		return CheckItem{Label: label, Status: StatusPass, Detail: dir + " created"}
	case err != nil:
		return CheckItem{Label: label, Status: StatusFail, Detail: err.Error()}
	case !info.IsDir():
		return CheckItem{Label: label, Status: StatusFail, Detail: dir + " is not a directory"}
	}

	if err := probeWrite(dir); err != nil {
		return CheckItem{Label: label, Status: StatusFail, Detail: "not writable: " + err.Error()}
	}
	return CheckItem{Label: label, Status: StatusPass, Detail: dir}
}

func probeWrite(dir string) error {
	f, err := os.CreateTemp(dir, ".meetbot-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
