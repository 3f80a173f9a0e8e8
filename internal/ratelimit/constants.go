package ratelimit

import "time"

// Workspace scope limits.
//
// Every workspace endpoint (tree, file, download, delete, upload) counts
// against a single shared scope: the backend serves an agent runtime as well
// as this client, and bursty polling from the console must not starve it.
// The gate enforces issuance spacing only; it says nothing about response
// ordering, which the syncer handles with epochs.
const (
	// WorkspaceRatePerSec is the steady-state issuance rate for workspace
	// calls. 1 req/sec keeps a comfortable margin under the backend's
	// per-session ceiling while staying far quicker than the poll period.
	WorkspaceRatePerSec = 1.0

	// WorkspaceBurstCapacity is 1: at most one issuance per spacing window,
	// so triggers arriving inside the window collapse into a drop (Allow)
	// or a delay (Wait) instead of stacking into a burst.
	WorkspaceBurstCapacity = 1.0

	// DefaultPollInterval is how often the open workspace panel re-fetches
	// the tree. Order of tens of seconds: fresh enough to follow an agent
	// writing files, cheap enough to leave the scope mostly idle.
	DefaultPollInterval = 20 * time.Second
)
