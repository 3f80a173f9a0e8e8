// Package constants centralizes tuning values shared across packages.
package constants

import "time"

// HTTP transport settings
const (
	// HTTPDialTimeout - timeout for establishing a connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for the dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for the TLS handshake (60 seconds)
	HTTPTLSHandshakeTimeout = 60 * time.Second

	// HTTPExpectContinueTimeout - timeout for a 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPRequestTimeout - overall request timeout for workspace API calls.
	// Tree snapshots and previews are small; downloads stream and get their
	// own context deadlines from the caller.
	HTTPRequestTimeout = 300 * time.Second
)

// Retry configuration for the workspace API client
const (
	// MaxRetries - maximum retry attempts for transient errors
	MaxRetries = 5

	// RetryWaitMin - initial backoff delay
	RetryWaitMin = 1 * time.Second

	// RetryWaitMax - backoff ceiling
	RetryWaitMax = 30 * time.Second
)

// Concurrency limits for multi-file operations
const (
	// MinMaxConcurrent - minimum concurrent uploads (sequential mode)
	MinMaxConcurrent = 1

	// MaxMaxConcurrent - maximum concurrent uploads allowed
	MaxMaxConcurrent = 10

	// DefaultMaxConcurrent - default upload concurrency
	DefaultMaxConcurrent = 4
)

// MaxPreviewBytes caps how much of a file the preview pane will hold.
// Previews are for eyeballing agent output, not paging through datasets;
// anything larger should be downloaded.
const MaxPreviewBytes = 1 * 1024 * 1024
