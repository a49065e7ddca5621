package doctor

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aliceinwire/meetbot2/internal/core/minutes"
)

// WritersCheck lists the configured writers and flags ones that cannot be
// built.
type WritersCheck struct {
	specs []minutes.Spec
}

func NewWritersCheck(specs []minutes.Spec) *WritersCheck {
	return &WritersCheck{specs: specs}
}

func (c *WritersCheck) Name() string {
	return "Writers"
}

func (c *WritersCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	for _, spec := range c.specs {
		entry, err := minutes.Build(spec, zerolog.Nop())
		if err != nil {
			result.Items = append(result.Items, CheckItem{Label: spec.Kind, Status: StatusFail, Detail: err.Error()})
			continue
		}

		detail := entry.Extension
		if strings.HasPrefix(entry.Extension, ".none") || entry.Extension == "." {
			detail += ", no file"
		}
		if entry.Realtime {
			detail += ", updated on every line"
		}
		result.Items = append(result.Items, CheckItem{Label: spec.Kind, Status: StatusPass, Detail: detail})
	}

	if len(result.Items) == 0 {
		result.Items = append(result.Items, CheckItem{Label: "writers", Status: StatusWarn, Detail: "no writers configured, nothing is saved"})
	}

	return result
}
