// Package artifact persists workflow documents and generated code files
// under a single base directory.
//
// Documents (constitution, spec, plan, tasks, implementation log) live
// directly in the base directory. Generated code files live under
// outputs/; bare filenames without a directory component are placed in
// outputs/src/ so they do not pile up at the outputs root.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specforge/specforge/internal/errors"
)

// Well-known document names.
const (
	Constitution   = "constitution.md"
	Spec           = "spec.md"
	Plan           = "plan.md"
	Tasks          = "tasks.md"
	Implementation = "implementation.md"
	Research       = "research.md"
	DataModel      = "data-model.md"
)

// outputsDir is the subdirectory for generated code files.
const outputsDir = "outputs"

// srcDir receives code files whose target path has no directory component.
const srcDir = "src"

// Store reads and writes workflow artifacts rooted at a base directory.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir. The directory is created
// lazily on first write.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the directory the store is rooted at.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Path returns the full path of a named document.
func (s *Store) Path(name string) string {
	return filepath.Join(s.baseDir, name)
}

// OutputsDir returns the directory generated code files are written under.
func (s *Store) OutputsDir() string {
	return filepath.Join(s.baseDir, outputsDir)
}

// Exists reports whether a named document is present.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Read returns the contents of a named document.
func (s *Store) Read(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewNotFoundError("artifact", name)
		}
		return "", errors.Wrapf(err, "reading %s", name)
	}
	return string(data), nil
}

// Write persists a named document, creating the base directory if needed.
func (s *Store) Write(name, content string) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", s.baseDir)
	}
	path := s.Path(name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", name)
	}
	return path, nil
}

// Append adds content to the end of a named document, creating it if it
// does not exist yet.
func (s *Store) Append(name, content string) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", s.baseDir)
	}
	f, err := os.OpenFile(s.Path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", name)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return errors.Wrapf(err, "appending to %s", name)
	}
	return nil
}

// SaveCode writes a generated code file. Relative paths are resolved
// under outputs/; a bare filename goes to outputs/src/. Paths that
// escape the outputs directory are rejected.
func (s *Store) SaveCode(relPath, content string) (string, error) {
	target, err := s.resolveCodePath(relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Wrapf(err, "creating directory for %s", relPath)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", relPath)
	}
	return target, nil
}

func (s *Store) resolveCodePath(relPath string) (string, error) {
	cleaned := filepath.Clean(strings.TrimSpace(relPath))
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("empty code file path")
	}
	if filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("code file path %q escapes the outputs directory", relPath)
	}
	if !strings.ContainsRune(cleaned, filepath.Separator) {
		cleaned = filepath.Join(srcDir, cleaned)
	}
	return filepath.Join(s.OutputsDir(), cleaned), nil
}

// Documents returns every well-known document name in pipeline order,
// regardless of whether it exists on disk.
func Documents() []string {
	return []string{Constitution, Spec, Research, DataModel, Plan, Tasks, Implementation}
}

// ListDocuments returns the well-known documents currently present,
// in pipeline order.
func (s *Store) ListDocuments() []string {
	var present []string
	for _, name := range Documents() {
		if s.Exists(name) {
			present = append(present, name)
		}
	}
	return present
}
