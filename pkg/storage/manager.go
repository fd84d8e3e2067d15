package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	errs "themedl/pkg/errors"
	"themedl/pkg/models"
)

// dirMode is applied before the process umask
const dirMode = 0777

// fileMode is set on every written asset
const fileMode = 0644

// Manager writes fetched assets under a single output directory
type Manager struct {
	outputDir    string
	saved        map[string]bool
	bytesWritten int64
	mu           sync.RWMutex
}

// Prepare creates the output directory for a run. An existing directory is
// a setup error so a new run never merges into a stale tree.
func Prepare(outputDir string) (*Manager, error) {
	if _, err := os.Stat(outputDir); err == nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeSetup,
			Message: fmt.Sprintf("output directory %s already exists, remove it and retry", outputDir),
		}
	}

	if err := os.Mkdir(outputDir, dirMode); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeSetup, err, "failed to create output directory")
	}

	return Open(outputDir), nil
}

// Open returns a manager for a directory that already exists
func Open(outputDir string) *Manager {
	return &Manager{
		outputDir: outputDir,
		saved:     make(map[string]bool),
	}
}

// Path maps an asset key to its location under the output directory
func (m *Manager) Path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty asset key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("asset key %q is not a relative path", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", fmt.Errorf("asset key %q escapes the output directory", key)
		}
	}

	clean := path.Clean(key)
	if clean == "." {
		return "", fmt.Errorf("asset key %q names no file", key)
	}
	return filepath.Join(m.outputDir, filepath.FromSlash(clean)), nil
}

// Save writes an asset to disk, creating parent directories as needed.
// Saving the same content twice leaves identical bytes on disk.
func (m *Manager) Save(content *models.AssetContent) error {
	target, err := m.Path(content.Key)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeIO, err, "invalid asset path").WithKey(content.Key)
	}

	data, err := content.Bytes()
	if err != nil {
		return errs.Wrap(errs.ErrorTypeIO, err, "failed to decode asset").WithKey(content.Key)
	}

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return errs.Wrap(errs.ErrorTypeIO, err, "failed to create asset directory").WithKey(content.Key)
	}

	if err := writeAtomic(target, data); err != nil {
		return errs.Wrap(errs.ErrorTypeIO, err, "failed to write asset").WithKey(content.Key)
	}

	m.mu.Lock()
	m.saved[content.Key] = true
	m.bytesWritten += int64(len(data))
	m.mu.Unlock()

	return nil
}

// tempPattern names in-flight writes. CreateTemp opens with O_EXCL, so an
// asset already on disk is never reused as a temp file.
const tempPattern = ".themedl-*"

// writeAtomic writes through a temporary file in the target's directory and
// renames it into place
func writeAtomic(filename string, data []byte) error {
	out, err := os.CreateTemp(filepath.Dir(filename), tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	_, err = out.Write(data)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Chmod(tempFile, fileMode); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// IsSaved reports whether an asset has been written in this run
func (m *Manager) IsSaved(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saved[key]
}

// Dir returns the output directory path
func (m *Manager) Dir() string {
	return m.outputDir
}

// SavedCount returns the number of distinct assets written
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

// BytesWritten returns the total decoded bytes written
func (m *Manager) BytesWritten() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bytesWritten
}
