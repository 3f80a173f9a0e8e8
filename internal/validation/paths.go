// Package validation provides input validation for paths that cross the
// trust boundary: workspace paths supplied by the console and filenames
// derived from them before they touch the local filesystem.
package validation

import (
	"fmt"
	"strings"
)

// ValidateFilename validates a bare filename (not a path) before it is used
// in a filepath.Join. Filenames derived from console responses are untrusted.
//
// Returns an error if the filename:
//   - Is empty
//   - Contains path separators (/ or \)
//   - Is the ".." component
//   - Contains null bytes
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if strings.ContainsRune(filename, 0) {
		return fmt.Errorf("filename contains null byte: %s", filename)
	}

	// Reject path separators (both Unix and Windows style)
	if strings.ContainsRune(filename, '/') || strings.ContainsRune(filename, '\\') {
		return fmt.Errorf("filename cannot contain path separators: %s", filename)
	}

	// Separators are already rejected, so only the literal ".." filename
	// can traverse. Names like "data..v2.csv" stay legal.
	if filename == ".." {
		return fmt.Errorf("filename cannot be '..': %s", filename)
	}

	return nil
}

// ValidateWorkspacePath validates a workspace path before it is sent to the
// console or compared against tree entries. Workspace paths are rooted,
// forward-slash separated, and free of traversal components.
func ValidateWorkspacePath(path string) error {
	if path == "" {
		return fmt.Errorf("workspace path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("workspace path contains null byte: %s", path)
	}
	if strings.ContainsRune(path, '\\') {
		return fmt.Errorf("workspace path must use forward slashes: %s", path)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("workspace path must be rooted: %s", path)
	}
	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return fmt.Errorf("workspace path cannot contain '..': %s", path)
		}
	}
	return nil
}
