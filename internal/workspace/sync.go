package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/models"
)

// ErrClosed is returned by Refresh after the syncer has been torn down.
var ErrClosed = errors.New("workspace syncer is closed")

// Syncer owns the workspace tree snapshot and is its sole writer.
//
// Each successful refresh replaces the snapshot wholesale. The backend is
// the single source of truth and is mutated concurrently by the agent, so
// client-side diffing would need an identity contract the backend does not
// offer beyond path uniqueness within one snapshot; full replacement trades
// a little redraw cost for correctness.
//
// Refreshes may complete out of request order. Every issued request gets a
// monotonically increasing epoch; a completion whose epoch is older than
// the newest issued request is discarded without touching the snapshot.
type Syncer struct {
	client API

	mu        sync.Mutex
	tree      []models.FileNode
	lastErr   error
	refreshed time.Time
	epoch     uint64
	closed    bool
}

// NewSyncer creates a syncer over the given client. The snapshot starts
// empty; call Refresh (or start a Poller) to populate it.
func NewSyncer(client API) *Syncer {
	return &Syncer{client: client}
}

// Refresh fetches the full tree and replaces the snapshot on success.
//
// Outcomes:
//   - success: snapshot replaced, error flag cleared, nil returned.
//   - transport failure: snapshot untouched (stale but valid), error flag
//     set for the view, error returned.
//   - dropped by the gate (api.ErrThrottled): a newer or concurrent trigger
//     already covers this window; silently a no-op.
//   - stale completion or closed syncer: silently discarded.
func (s *Syncer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	tree, err := s.client.GetTree(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		// Torn down while the request was in flight: discard the result.
		return nil
	}
	if epoch < s.epoch {
		// A newer request was issued while this one was in flight. Apply
		// only the last-issued request's completion, whenever it lands.
		return nil
	}

	if err != nil {
		if api.IsThrottled(err) {
			// The gate dropped this trigger before any request was issued,
			// so it must not count as the newest request: give the claim
			// back so an older refresh still in flight can commit.
			if epoch == s.epoch {
				s.epoch--
			}
			return nil
		}
		s.lastErr = err
		return err
	}

	s.tree = tree
	s.lastErr = nil
	s.refreshed = time.Now()
	return nil
}

// Tree returns the current snapshot. Callers must treat it as immutable:
// the slice is handed out as-is and replaced, never mutated in place.
func (s *Syncer) Tree() []models.FileNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Err returns the error from the most recent failed refresh, or nil if the
// last refresh succeeded. The view renders this as a retry affordance next
// to the stale snapshot.
func (s *Syncer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// LastRefreshed returns when the snapshot was last replaced. Zero until the
// first successful refresh.
func (s *Syncer) LastRefreshed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}

// Close marks the syncer torn down. In-flight requests are not aborted but
// their results are discarded when they land; future Refresh calls return
// ErrClosed.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
