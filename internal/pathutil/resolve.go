// Package pathutil provides local path resolution shared by the CLI and
// the interactive view.
package pathutil

import (
	"os"
	"path/filepath"
)

// ResolveDownloadDir turns a configured download directory into an absolute
// path. Empty means the current directory; a leading ~ expands to the home
// directory.
func ResolveDownloadDir(path string) (string, error) {
	if path == "" {
		return os.Getwd()
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = home + path[1:]
	}

	return filepath.Abs(path)
}
