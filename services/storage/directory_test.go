package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectoryManagerCreatesDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := filepath.Join("/robot", "IMGS", "ERRORS")

	m, err := NewDirectoryManager(fs, dir)
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, dir)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "a.png"), m.Path("a.png"))
}

func TestDeleteFilesPurgesStaleFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/robot/IMGS/run"
	require.NoError(t, afero.WriteFile(fs, dir+"/1.png", []byte("old"), 0o644))
	require.NoError(t, afero.WriteFile(fs, dir+"/2.png", []byte("old"), 0o644))
	require.NoError(t, fs.MkdirAll(dir+"/nested", 0o755))

	m, err := NewDirectoryManager(fs, dir)
	require.NoError(t, err)
	require.NoError(t, m.DeleteFiles())

	names, err := m.SearchFiles("")
	require.NoError(t, err)
	assert.Empty(t, names)

	nested, err := afero.DirExists(fs, dir+"/nested")
	require.NoError(t, err)
	assert.True(t, nested)

	// purging twice is fine
	require.NoError(t, m.DeleteFiles())
}

func TestSearchAndGetFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := NewDirectoryManager(fs, "/robot/RESULTS")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/robot/RESULTS/FATURAS_02.csv", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/robot/RESULTS/FATURAS_01.csv", nil, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/robot/RESULTS/notes.txt", nil, 0o644))

	names, err := m.SearchFiles("FATURAS")
	require.NoError(t, err)
	assert.Equal(t, []string{"FATURAS_01.csv", "FATURAS_02.csv"}, names)

	path, err := m.GetFile("FATURAS")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/robot/RESULTS", "FATURAS_01.csv"), path)

	path, err = m.GetFile("missing")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestDeleteAndMoveFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := NewDirectoryManager(fs, "/robot/in")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/robot/in/a.png", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/robot/in/b.png", []byte("b"), 0o644))

	require.NoError(t, m.DeleteFile("a.png"))
	require.NoError(t, m.DeleteFile("a.png"))

	dst, err := m.MoveFile("/robot/in/b.png", "/robot/out")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/robot/out", "b.png"), dst)

	data, err := afero.ReadFile(fs, dst)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	names, err := m.SearchFiles("")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMonitor(t *testing.T) {
	fs := afero.NewMemMapFs()
	m, err := NewDirectoryManager(fs, "/robot/downloads")
	require.NoError(t, err)

	path, err := m.Monitor(context.Background(), "invoice", 30*time.Millisecond, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, path)

	require.NoError(t, afero.WriteFile(fs, "/robot/downloads/invoice_1.png", nil, 0o644))
	path, err = m.Monitor(context.Background(), "invoice", time.Second, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/robot/downloads", "invoice_1.png"), path)
}
