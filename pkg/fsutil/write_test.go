package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev", "2026", "dev.2026-10-19-12.00.html")

	require.NoError(t, WriteFile(path, "<html></html>", 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutes.txt")

	require.NoError(t, WriteFile(path, "first", 0))
	require.NoError(t, WriteFile(path, "second", 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestWriteFile_RestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutes.txt")

	require.NoError(t, WriteFile(path, "secret", 0o077))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Mode().Perm()&0o077, "group and other bits should be cleared")
}

func TestWriteFile_ParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteFile(filepath.Join(blocker, "out.txt"), "text", 0)
	require.Error(t, err)
}
