package populate

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decoyhive/decoyhive/pkg/types"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDeployer(t *testing.T) (*Deployer, string) {
	t.Helper()
	base := t.TempDir()
	d, err := NewDeployer(base, discard())
	require.NoError(t, err)
	return d, base
}

func TestDeploy(t *testing.T) {
	d, base := newTestDeployer(t)

	res := d.Deploy("hp-1", []types.FileSpec{
		{Path: ".bashrc", Content: "export PS1='$ '\n"},
		{Path: "projects/app/.env", Content: "PORT=8080\n", Permissions: 0o600},
	})

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.FilesCreated)
	assert.Empty(t, res.Errors)
	assert.Equal(t, filepath.Join(base, "hp-1"), res.HoneypotPath)

	data, err := os.ReadFile(filepath.Join(base, "hp-1", ".bashrc"))
	require.NoError(t, err)
	assert.Equal(t, "export PS1='$ '\n", string(data))

	info, err := os.Stat(filepath.Join(base, "hp-1", "projects", "app", ".env"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDeployDefaultPermissions(t *testing.T) {
	d, base := newTestDeployer(t)

	res := d.Deploy("hp-1", []types.FileSpec{{Path: "notes.txt", Content: "x"}})
	require.True(t, res.Success)

	info, err := os.Stat(filepath.Join(base, "hp-1", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestDeployBackdatesTimestamps(t *testing.T) {
	d, base := newTestDeployer(t)

	res := d.Deploy("hp-1", []types.FileSpec{{Path: "old.log", Content: "entry\n"}})
	require.True(t, res.Success)

	info, err := os.Stat(filepath.Join(base, "hp-1", "old.log"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Before(time.Now().Add(-time.Minute)),
		"deployed file should not carry a fresh mtime")
	assert.True(t, info.ModTime().After(time.Now().AddDate(-1, 0, -1)))
}

func TestDeployPinnedTimestamp(t *testing.T) {
	d, base := newTestDeployer(t)

	ts := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	res := d.Deploy("hp-1", []types.FileSpec{{Path: "pinned.txt", Content: "x", Timestamp: &ts}})
	require.True(t, res.Success)

	info, err := os.Stat(filepath.Join(base, "hp-1", "pinned.txt"))
	require.NoError(t, err)
	assert.True(t, ts.Equal(info.ModTime()))
}

func TestDeployRejectsEscapingPaths(t *testing.T) {
	d, base := newTestDeployer(t)

	res := d.Deploy("hp-1", []types.FileSpec{
		{Path: "../outside.txt", Content: "nope"},
		{Path: "inside.txt", Content: "ok"},
	})

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.FilesCreated)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "escapes honeypot root")

	_, err := os.Stat(filepath.Join(base, "outside.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeployEmptyBatch(t *testing.T) {
	d, _ := newTestDeployer(t)
	res := d.Deploy("hp-1", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Errors, "no files to deploy")
}
