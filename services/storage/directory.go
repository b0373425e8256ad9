package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DirectoryManager manages the files of a single directory
type DirectoryManager struct {
	fs  afero.Fs
	dir string
}

// NewDirectoryManager creates a manager for dir, creating it if needed
func NewDirectoryManager(fs afero.Fs, dir string) (*DirectoryManager, error) {
	m := &DirectoryManager{fs: fs, dir: dir}
	if err := m.Ensure(); err != nil {
		return nil, err
	}
	return m, nil
}

// Dir returns the managed directory
func (m *DirectoryManager) Dir() string {
	return m.dir
}

// Path joins name onto the managed directory
func (m *DirectoryManager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// Ensure creates the directory and its parents
func (m *DirectoryManager) Ensure() error {
	if err := m.fs.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", m.dir, err)
	}
	return nil
}

// SearchFiles returns the names of files containing keyword, sorted
func (m *DirectoryManager) SearchFiles(keyword string) ([]string, error) {
	entries, err := afero.ReadDir(m.fs, m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", m.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), keyword) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// GetFile returns the full path of the first file containing keyword, or "" if none
func (m *DirectoryManager) GetFile(keyword string) (string, error) {
	names, err := m.SearchFiles(keyword)
	if err != nil || len(names) == 0 {
		return "", err
	}
	return m.Path(names[0]), nil
}

// DeleteFile removes a file given by full path or by name inside the directory.
// A missing file is not an error.
func (m *DirectoryManager) DeleteFile(pathOrName string) error {
	path := pathOrName
	if !filepath.IsAbs(path) {
		path = m.Path(pathOrName)
	}
	if err := m.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// DeleteFiles removes every regular file in the directory. Subdirectories are kept.
func (m *DirectoryManager) DeleteFiles() error {
	names, err := m.SearchFiles("")
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := m.DeleteFile(name); err != nil {
			return err
		}
	}
	return nil
}

// MoveFile moves src into dstDir and returns the new path
func (m *DirectoryManager) MoveFile(src, dstDir string) (string, error) {
	if err := m.fs.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dstDir, err)
	}
	dst := filepath.Join(dstDir, filepath.Base(src))
	if err := m.fs.Rename(src, dst); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return dst, nil
}

// Monitor polls the directory every interval until a file containing keyword appears.
// It returns "" when timeout elapses first.
func (m *DirectoryManager) Monitor(ctx context.Context, keyword string, timeout, interval time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		path, err := m.GetFile(keyword)
		if err != nil {
			return "", err
		}
		if path != "" {
			return path, nil
		}

		select {
		case <-ctx.Done():
			return "", nil
		case <-ticker.C:
		}
	}
}
