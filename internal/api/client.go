// Package api provides the agent console workspace API client.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/constants"
	"github.com/agentdeck/agentdeck/internal/http"
	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/ratelimit"
)

// Workspace endpoint paths. The backend serves the agent runtime and this
// client from the same routes, so these are part of the compatibility
// contract and must not drift.
const (
	treePath     = "/api/workspace/tree"
	filePath     = "/api/workspace/file"
	downloadPath = "/api/workspace/file/download"
	uploadPath   = "/api/workspace/upload"
)

// retryLogger adapts the retryablehttp logger interface onto zerolog.
// Only errors and warnings are surfaced; per-attempt info is noise.
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Error().Fields(keysAndValues).Msg("retry: " + msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warn().Fields(keysAndValues).Msg("retry: " + msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

// Client talks to the workspace endpoints of the agent console backend.
//
// Every call passes through the shared ratelimit.Gate before issuance:
// tree refreshes use the non-blocking path (a throttled refresh is dropped
// and reported as ErrThrottled), file operations block until spacing
// allows. One Client instance serves all call sites so the gate is applied
// process-wide.
type Client struct {
	httpClient   *nethttp.Client
	streamClient *nethttp.Client
	config       *config.Config
	baseURL      string
	apiKey       string
	gate         *ratelimit.Gate
}

// NewClient creates a workspace API client. The gate is injected rather
// than constructed here so tests and the CLI can share a single instance
// across every component that issues workspace calls.
func NewClient(cfg *config.Config, gate *ratelimit.Gate) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("console base URL is empty")
	}
	if gate == nil {
		return nil, fmt.Errorf("rate limit gate is required")
	}

	httpClient, err := http.ConfigureHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	streamClient, err := http.ConfigureStreamingClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure streaming client: %w", err)
	}

	// Wrap the JSON client with retry logic. Downloads are not wrapped:
	// replaying a partially consumed stream is the caller's problem, and
	// a failed download just surfaces as a notice.
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = constants.MaxRetries
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = &retryLogger{}

	return &Client{
		httpClient:   retryClient.StandardClient(),
		streamClient: streamClient,
		config:       cfg,
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		gate:         gate,
	}, nil
}

// GetConfig returns the configuration used by this client.
func (c *Client) GetConfig() *config.Config {
	return c.config
}

// newRequest builds an authenticated request against a workspace endpoint.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*nethttp.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// statusError drains the body and converts a non-2xx response into an error
// carrying the status and a body excerpt.
func statusError(op string, resp *nethttp.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == nethttp.StatusNotFound {
		return fmt.Errorf("%s failed: %w: %s", op, ErrNotFound, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("%s failed: status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// GetTree fetches the full workspace hierarchy. Refresh triggers share the
// non-blocking gate path: when the throttle window is exhausted the trigger
// is dropped with ErrThrottled instead of queueing, so bursts of triggers
// collapse to a single issued request.
func (c *Client) GetTree(ctx context.Context) ([]models.FileNode, error) {
	if !c.gate.Allow() {
		return nil, ErrThrottled
	}

	req, err := c.newRequest(ctx, nethttp.MethodGet, treePath, nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get tree failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return nil, statusError("get tree", resp)
	}

	var tr models.TreeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}

	return tr.Tree, nil
}

// GetFileContent fetches a file body for preview. Blocks on the gate: a
// user-initiated preview must run, spaced, not be dropped.
func (c *Client) GetFileContent(ctx context.Context, path string) (string, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter cancelled: %w", err)
	}

	query := url.Values{"path": {path}}
	req, err := c.newRequest(ctx, nethttp.MethodGet, filePath, query, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get file content failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK {
		return "", statusError("get file content", resp)
	}

	var fc models.FileContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return "", fmt.Errorf("failed to decode file content: %w", err)
	}

	return fc.Content, nil
}

// DownloadFile opens a binary stream for the file at path. The caller owns
// the returned ReadCloser. Size is -1 when the backend does not send a
// Content-Length.
func (c *Client) DownloadFile(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limiter cancelled: %w", err)
	}

	query := url.Values{"path": {path}}
	req, err := c.newRequest(ctx, nethttp.MethodGet, downloadPath, query, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download failed: %w", err)
	}

	if resp.StatusCode != nethttp.StatusOK {
		defer resp.Body.Close()
		return nil, 0, statusError("download", resp)
	}

	size := int64(-1)
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if parsed, perr := strconv.ParseInt(cl, 10, 64); perr == nil {
			size = parsed
		}
	}

	return resp.Body, size, nil
}

// DeleteFile removes the file at path from the workspace.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	if err := c.gate.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter cancelled: %w", err)
	}

	query := url.Values{"path": {path}}
	req, err := c.newRequest(ctx, nethttp.MethodDelete, filePath, query, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusNoContent {
		return statusError("delete", resp)
	}

	return nil
}

// UploadFile sends one file to the workspace as a multipart form with field
// name "file". The body is buffered through a pipe so arbitrarily large
// files do not load into memory.
func (c *Client) UploadFile(ctx context.Context, name string, r io.Reader) (*models.UploadAck, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter cancelled: %w", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, nethttp.MethodPost, uploadPath, nil, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	// The streaming client is used here as well: a pipe-backed body is not
	// replayable, so the retry wrapper must not see it.
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusOK && resp.StatusCode != nethttp.StatusCreated {
		return nil, statusError("upload", resp)
	}

	var ack models.UploadAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		// Some backends ack with an empty body; treat that as success.
		if err == io.EOF {
			return &models.UploadAck{Path: name}, nil
		}
		return nil, fmt.Errorf("failed to decode upload ack: %w", err)
	}

	return &ack, nil
}
