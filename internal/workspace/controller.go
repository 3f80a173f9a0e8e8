package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/agentdeck/agentdeck/internal/constants"
	"github.com/agentdeck/agentdeck/internal/models"
)

// SelectedFile is the currently previewed file body. At most one exists:
// a newer preview replaces it, closing the preview or deleting the
// previewed path clears it.
type SelectedFile struct {
	Path    string
	Name    string
	Content string
}

// ErrNoStagedDelete is returned by ConfirmDelete when no delete is staged.
var ErrNoStagedDelete = errors.New("no delete staged for confirmation")

// Controller orchestrates the per-file operations: preview, download,
// upload, and delete. Operations are independent and non-exclusive; a
// download in flight does not block a preview. The controller owns the
// selected file and the pending delete confirmation and nothing else.
//
// Upload and delete are fully functional here; the user-facing triggers in
// the CLI and TUI sit behind config feature flags. Keeping the state
// machines live (and tested) means re-enabling is a one-line config change,
// not a rewrite.
type Controller struct {
	client API
	syncer *Syncer

	mu            sync.Mutex
	selected      *SelectedFile
	pendingDelete *models.FileNode
	previewEpoch  uint64
}

// NewController creates a controller sharing the syncer so successful
// mutations can trigger an immediate out-of-band refresh.
func NewController(client API, syncer *Syncer) *Controller {
	return &Controller{client: client, syncer: syncer}
}

// Preview loads the file at path into the selected slot.
//
// Non-previewable extensions are rejected before any network call with
// ErrNotPreviewable. Concurrent previews supersede each other: only the
// most recently requested path's result is committed, a stale completion
// is silently discarded (nil error, selection untouched). On transport
// failure the previous selection is left unchanged.
func (c *Controller) Preview(ctx context.Context, path string) error {
	if !IsPreviewable(path) {
		return ErrNotPreviewable
	}

	c.mu.Lock()
	c.previewEpoch++
	epoch := c.previewEpoch
	c.mu.Unlock()

	content, err := c.client.GetFileContent(ctx, path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch < c.previewEpoch {
		// A newer preview was requested while this one was in flight.
		return nil
	}
	if err != nil {
		return fmt.Errorf("preview %s: %w", path, err)
	}

	if len(content) > constants.MaxPreviewBytes {
		// Back off to a rune boundary so the cut never leaves a broken
		// UTF-8 sequence at the end of the preview.
		cut := constants.MaxPreviewBytes
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		content = content[:cut]
	}

	c.selected = &SelectedFile{
		Path:    path,
		Name:    filepath.Base(path),
		Content: content,
	}
	return nil
}

// Selected returns a copy of the current selection, or nil when no preview
// is open.
func (c *Controller) Selected() *SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	sel := *c.selected
	return &sel
}

// ClearSelection closes the preview.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Download streams the file at path into destPath. The payload lands in a
// temporary sibling first and is renamed into place only when complete, so
// a failed transfer never leaves a truncated file at destPath, and the
// temporary is removed on every failure path.
func (c *Controller) Download(ctx context.Context, path, destPath string) (err error) {
	body, _, err := c.client.DownloadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}
	defer body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}

	tmpPath := destPath + ".part"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}
	return nil
}

// Upload sends each local file to the workspace, one request per file,
// concurrently. It waits for all transfers to settle, then triggers exactly
// one refresh regardless of outcome: files that succeeded server-side stay
// succeeded, and the refreshed tree reflects true server state. Individual
// failures are aggregated into the returned error.
func (c *Controller) Upload(ctx context.Context, localPaths []string) error {
	if len(localPaths) == 0 {
		return nil
	}

	errs := make([]error, len(localPaths))
	var wg sync.WaitGroup

	for i, localPath := range localPaths {
		wg.Add(1)
		go func(i int, localPath string) {
			defer wg.Done()
			errs[i] = c.uploadOne(ctx, localPath)
		}(i, localPath)
	}
	wg.Wait()

	// One refresh after the batch, not one per file.
	c.refreshAfterMutation(ctx)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}

func (c *Controller) uploadOne(ctx context.Context, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%s: %w", localPath, err)
	}
	defer f.Close()

	if _, err := c.client.UploadFile(ctx, filepath.Base(localPath), f); err != nil {
		return fmt.Errorf("%s: %w", localPath, err)
	}
	return nil
}

// StageDelete holds the target node for confirmation. The delete call is
// not issued until ConfirmDelete; CancelDelete abandons the stage with no
// network traffic.
func (c *Controller) StageDelete(node models.FileNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	staged := node
	c.pendingDelete = &staged
}

// PendingDelete returns a copy of the staged node, or nil when nothing is
// staged.
func (c *Controller) PendingDelete() *models.FileNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete == nil {
		return nil
	}
	staged := *c.pendingDelete
	return &staged
}

// CancelDelete abandons the staged delete.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete issues the staged delete. On success the tree is refreshed
// and, if the deleted path was the open preview, the selection is cleared.
// On failure both the snapshot and the selection are left unchanged. The
// stage is consumed either way.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	staged := c.pendingDelete
	c.pendingDelete = nil
	c.mu.Unlock()

	if staged == nil {
		return ErrNoStagedDelete
	}

	if err := c.client.DeleteFile(ctx, staged.Path); err != nil {
		return fmt.Errorf("delete %s: %w", staged.Path, err)
	}

	c.mu.Lock()
	if c.selected != nil && c.selected.Path == staged.Path {
		c.selected = nil
	}
	c.mu.Unlock()

	c.refreshAfterMutation(ctx)
	return nil
}

// StageDropped is the drag-and-drop entry point into upload. It is a no-op
// by design: the drop affordance intercepts the gesture but stages nothing
// until the upload feature is re-enabled end to end.
func (c *Controller) StageDropped(localPaths []string) {}

// refreshAfterMutation triggers the immediate post-operation refresh. Its
// outcome is deliberately ignored: the mutation already succeeded, and if
// this refresh is throttled or fails, the periodic poll reconciles shortly.
func (c *Controller) refreshAfterMutation(ctx context.Context) {
	if c.syncer == nil {
		return
	}
	_ = c.syncer.Refresh(ctx)
}
