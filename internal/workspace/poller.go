package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/agentdeck/agentdeck/internal/logging"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/ratelimit"
)

// Poller drives periodic refreshes while the workspace panel is open.
//
// The first refresh fires immediately, then on a fixed period. Stop cancels
// the ticker the instant the panel closes; any refresh already in flight is
// left to finish and its result is discarded by the syncer's epoch/closed
// checks rather than actively aborted.
type Poller struct {
	syncer   *Syncer
	interval time.Duration
	logger   *logging.Logger

	// OnRefresh, when set, is invoked after every completed refresh attempt
	// with the current snapshot and the refresh error (nil on success or
	// silent discard). The watch command uses this to diff snapshots.
	OnRefresh func(tree []models.FileNode, err error)

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewPoller creates a poller over the syncer. A non-positive interval falls
// back to the default poll period.
func NewPoller(syncer *Syncer, interval time.Duration, logger *logging.Logger) *Poller {
	if interval <= 0 {
		interval = ratelimit.DefaultPollInterval
	}
	return &Poller{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

// Start begins polling. It is a no-op if the poller is already running.
// Polling stops when Stop is called or ctx is cancelled, whichever comes
// first.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopChan = make(chan struct{})
	stop := p.stopChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.refreshOnce(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refreshOnce(ctx)
			}
		}
	}()
}

func (p *Poller) refreshOnce(ctx context.Context) {
	err := p.syncer.Refresh(ctx)
	if err != nil && err != ErrClosed && p.logger != nil {
		p.logger.Debug().Err(err).Msg("workspace refresh failed, keeping last snapshot")
	}

	if p.OnRefresh != nil && err != ErrClosed {
		p.OnRefresh(p.syncer.Tree(), err)
	}
}

// Stop cancels the periodic timer and waits for the loop to exit. Safe to
// call more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopChan)
	p.mu.Unlock()

	p.wg.Wait()
}

// Running reports whether the poll loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
