// Package workspace implements the synchronization model behind the
// workspace panel: the tree snapshot owned by the Syncer, the polling
// lifecycle, and the per-file operation state machines.
//
// Ownership is strict: the Syncer is the only writer of the tree snapshot,
// the Controller is the only writer of the selected file and the pending
// delete confirmation, and the view layers own expansion and cursor state.
// No two components write the same field; the remaining ordering hazard
// (a stale response landing after a newer request) is handled by epoch
// checks, not locking.
package workspace

import (
	"context"
	"io"

	"github.com/agentdeck/agentdeck/internal/models"
)

// API is the slice of the console client the workspace panel consumes.
// Declared here so tests can substitute counting fakes and so the panel
// never grows an accidental dependency on unrelated endpoints.
type API interface {
	GetTree(ctx context.Context) ([]models.FileNode, error)
	GetFileContent(ctx context.Context, path string) (string, error)
	DownloadFile(ctx context.Context, path string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, path string) error
	UploadFile(ctx context.Context, name string, r io.Reader) (*models.UploadAck, error)
}
