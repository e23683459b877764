// Package security keeps file paths received from MCP clients inside the
// configured working directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator resolves client-supplied paths against a root directory
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator rooted at dir. The directory does
// not need to exist yet.
func NewPathValidator(dir string) (*PathValidator, error) {
	if dir == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute configured directory.
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve turns path into an absolute path inside the root. Relative paths
// are taken relative to the root; NUL bytes are rejected.
func (v *PathValidator) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("path contains a NUL byte")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	resolved := filepath.Clean(path)

	if !v.contains(resolved) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	return resolved, nil
}

// contains checks the lexical path and, when it exists, the path with
// symlinks evaluated.
func (v *PathValidator) contains(path string) bool {
	roots := []string{v.root}
	if real, err := filepath.EvalSymlinks(v.root); err == nil && real != v.root {
		roots = append(roots, real)
	}

	candidates := []string{path}
	if real, err := evalExisting(path); err == nil {
		candidates = append(candidates, real)
	}

	for _, candidate := range candidates {
		if !withinAny(candidate, roots) {
			return false
		}
	}
	return true
}

// evalExisting evaluates symlinks of path, or of its parent directory when
// path itself does not exist yet (an output file about to be written).
func evalExisting(path string) (string, error) {
	if _, err := os.Lstat(path); err == nil {
		return filepath.EvalSymlinks(path)
	}
	parent, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, filepath.Base(path)), nil
}

func withinAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root {
			return true
		}
		prefix := root
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
