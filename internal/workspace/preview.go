package workspace

import (
	"errors"
	"path"
	"strings"
)

// ErrNotPreviewable is returned when a preview is requested for a file type
// outside the allow-list. It is a validation rejection, not a transport
// failure: no network call was made and the user can always recover by
// downloading the file instead.
var ErrNotPreviewable = errors.New("file type is not previewable")

// previewableExtensions is the allow-list of extensions the preview pane
// renders as text. Matched case-insensitively against the path suffix.
var previewableExtensions = []string{
	".txt", ".md", ".json", ".yaml", ".yml", ".log",
	".csv", ".html", ".css", ".js", ".ts", ".py",
}

// IsPreviewable reports whether the file at p can be shown in the preview
// pane based on its extension.
func IsPreviewable(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, allowed := range previewableExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// PreviewableExtensions returns a copy of the allow-list, for help text.
func PreviewableExtensions() []string {
	out := make([]string, len(previewableExtensions))
	copy(out, previewableExtensions)
	return out
}
