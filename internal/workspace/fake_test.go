package workspace

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/agentdeck/agentdeck/internal/models"
)

// fakeAPI is a controllable in-memory workspace backend. Per-request release
// channels let tests decide completion order to exercise the epoch checks.
type fakeAPI struct {
	mu sync.Mutex

	tree     []models.FileNode
	treeErr  error
	contents map[string]string

	treeCalls    int
	contentCalls int
	deleteCalls  []string
	uploadCalls  []string

	contentErr  error
	deleteErr   error
	uploadErr   error
	downloadErr error

	// treeBlocks (keyed by 1-based issuance order) and blockContent (keyed
	// by path), when an entry exists, are received from before the
	// corresponding call returns, letting the test control completion order.
	treeBlocks   map[int]chan []models.FileNode
	blockContent map[string]chan string

	downloadBody io.ReadCloser
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		contents:     make(map[string]string),
		treeBlocks:   make(map[int]chan []models.FileNode),
		blockContent: make(map[string]chan string),
	}
}

func (f *fakeAPI) GetTree(ctx context.Context) ([]models.FileNode, error) {
	f.mu.Lock()
	f.treeCalls++
	block := f.treeBlocks[f.treeCalls]
	tree, err := f.tree, f.treeErr
	f.mu.Unlock()

	if block != nil {
		select {
		case tree = <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return tree, err
}

func (f *fakeAPI) GetFileContent(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.contentCalls++
	block := f.blockContent[path]
	content, ok := f.contents[path]
	err := f.contentErr
	f.mu.Unlock()

	if block != nil {
		select {
		case content = <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		return content, err
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("no such file")
	}
	return content, nil
}

func (f *fakeAPI) DownloadFile(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return nil, 0, f.downloadErr
	}
	if f.downloadBody != nil {
		return f.downloadBody, -1, nil
	}
	content := f.contents[path]
	return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
}

func (f *fakeAPI) DeleteFile(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteCalls = append(f.deleteCalls, path)
	return nil
}

func (f *fakeAPI) UploadFile(ctx context.Context, name string, r io.Reader) (*models.UploadAck, error) {
	io.Copy(io.Discard, r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil && strings.HasPrefix(name, "bad") {
		return nil, f.uploadErr
	}
	f.uploadCalls = append(f.uploadCalls, name)
	return &models.UploadAck{Path: "/" + name}, nil
}

func (f *fakeAPI) counts() (tree, content int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.treeCalls, f.contentCalls
}
