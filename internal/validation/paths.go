// Package validation provides input validation utilities for filepicker.
package validation

import (
	"fmt"
	"path"
	"strings"
)

// ValidateNodeName validates a file or folder basename (not a full path).
// This should be used for names received from user input (like the
// new-folder prompt) before joining them onto a remote path.
//
// Returns an error if the name:
//   - Is empty or all whitespace
//   - Contains path separators (/ or \)
//   - Is "." or ".."
//   - Contains null bytes
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("name contains null byte: %s", name)
	}

	// Reject path separators (both Unix and Windows style)
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, '\\') {
		return fmt.Errorf("name cannot contain path separators: %s", name)
	}

	// Reject "." and ".." to prevent traversal. Names like "foo..bar"
	// remain legitimate since separators are already rejected above.
	if name == "." || name == ".." {
		return fmt.Errorf("name cannot be %q", name)
	}

	return nil
}

// NormalizeRemotePath cleans a forward-slash remote path into its
// canonical form: absolute, no trailing slash (except root), no "."
// or ".." components, no duplicate slashes.
//
// An empty input normalizes to "/".
func NormalizeRemotePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = path.Clean(p)
	if p == "." {
		p = "/"
	}
	return p
}

// ValidateRemotePath checks that a remote path is absolute and does not
// escape the root after cleaning.
func ValidateRemotePath(p string) error {
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("path contains null byte: %s", p)
	}
	cleaned := NormalizeRemotePath(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("path escapes root: %s", p)
	}
	return nil
}

// JoinRemote joins a parent path and a basename into a normalized
// remote path.
func JoinRemote(parent, name string) string {
	return NormalizeRemotePath(path.Join(NormalizeRemotePath(parent), name))
}
