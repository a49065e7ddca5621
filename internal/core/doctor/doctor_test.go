package doctor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliceinwire/meetbot2/internal/core/config"
	"github.com/aliceinwire/meetbot2/internal/core/minutes"
	"github.com/aliceinwire/meetbot2/internal/store/jsonfile"
)

func statuses(r Result) map[string]Status {
	out := make(map[string]Status, len(r.Items))
	for _, item := range r.Items {
		out[item.Label] = item.Status
	}
	return out
}

func TestConfigCheck(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.LogDir = dir

	result := NewConfigCheck(&cfg, filepath.Join(dir, "missing.yaml")).Run(context.Background())
	got := statuses(result)
	assert.Equal(t, StatusWarn, got["config file"])
	assert.Equal(t, StatusPass, got["validation"])
	assert.Equal(t, StatusWarn, got["log_url_prefix"])

	cfg.SpecialChannels = []string{"#bad["}
	result = NewConfigCheck(&cfg, "").Run(context.Background())
	assert.Equal(t, StatusFail, statuses(result)["validation"])
}

func TestStorageCheck(t *testing.T) {
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	dataDir := filepath.Join(root, "data")
	store := jsonfile.NewHistoryStore(filepath.Join(dataDir, "history.json"))

	result := NewStorageCheck(logDir, dataDir, store, false).Run(context.Background())
	got := statuses(result)
	assert.Equal(t, StatusWarn, got["log_dir"])
	assert.Equal(t, StatusWarn, got["data_dir"])
	assert.Equal(t, StatusPass, got["history"])
	assert.Equal(t, 2, Count([]Result{result}).Fixable)

	result = NewStorageCheck(logDir, dataDir, store, true).Run(context.Background())
	got = statuses(result)
	assert.Equal(t, StatusPass, got["log_dir"])
	assert.DirExists(t, logDir)
	assert.DirExists(t, dataDir)

	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	result = NewStorageCheck(file, dataDir, nil, false).Run(context.Background())
	got = statuses(result)
	assert.Equal(t, StatusFail, got["log_dir"])
	assert.NotContains(t, got, "history")
}

func TestWritersCheck(t *testing.T) {
	specs := append(minutes.Defaults(true), minutes.Spec{Kind: minutes.KindSummary}, minutes.Spec{Kind: "pdf"})

	result := NewWritersCheck(specs).Run(context.Background())
	require.Len(t, result.Items, 6)

	got := statuses(result)
	assert.Equal(t, StatusPass, got[minutes.KindTextLog])
	assert.Equal(t, StatusFail, got["pdf"])

	for _, item := range result.Items {
		if item.Label == minutes.KindSummary {
			assert.Contains(t, item.Detail, "no file")
		}
		if item.Label == minutes.KindHTMLLog {
			assert.Contains(t, item.Detail, "every line")
		}
	}

	empty := NewWritersCheck(nil).Run(context.Background())
	assert.Equal(t, StatusWarn, empty.Items[0].Status)
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{NewWritersCheck([]minutes.Spec{{Kind: "pdf"}, {Kind: minutes.KindHTML}})})
	require.Len(t, results, 1)
	assert.Equal(t, StatusFail, results[0].Items[0].Status)

	tally := Count(results)
	assert.Equal(t, Tally{Passed: 1, Failed: 1}, tally)
	assert.False(t, tally.Healthy())

	data, err := json.Marshal(results[0].Items[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"fail"`)
}

func TestRunAll_StopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, RunAll(ctx, []Check{NewWritersCheck(nil)}))
}
