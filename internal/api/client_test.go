package api

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/ratelimit"
)

// testClient returns a client pointed at the given test server with a
// fresh, permissive gate.
func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	cfg := config.New()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "test-token"

	client, err := NewClient(cfg, ratelimit.NewGate(1000, 1000))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientRejectsEmptyBaseURL(t *testing.T) {
	cfg := config.New()
	cfg.BaseURL = ""

	_, err := NewClient(cfg, ratelimit.NewWorkspaceGate())
	if err == nil {
		t.Fatal("NewClient() should return error for empty base URL")
	}
	if !strings.Contains(err.Error(), "base URL is empty") {
		t.Errorf("NewClient() error = %q, want mention of empty base URL", err)
	}
}

func TestNewClientRequiresGate(t *testing.T) {
	if _, err := NewClient(config.New(), nil); err == nil {
		t.Fatal("NewClient() should reject a nil gate")
	}
}

func TestGetTree(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/api/workspace/tree" {
			t.Errorf("path = %q, want /api/workspace/tree", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"tree":[{"name":"out","path":"/out","type":"directory","children":[{"name":"log.txt","path":"/out/log.txt","type":"file"}]}]}`)
	}))
	defer srv.Close()

	tree, err := testClient(t, srv).GetTree(context.Background())
	if err != nil {
		t.Fatalf("GetTree() error = %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", gotAuth)
	}
	if len(tree) != 1 || tree[0].Path != "/out" || len(tree[0].Children) != 1 {
		t.Errorf("unexpected tree: %+v", tree)
	}
}

func TestGetTreeThrottledDropsWithoutRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls++
		io.WriteString(w, `{"tree":[]}`)
	}))
	defer srv.Close()

	cfg := config.New()
	cfg.BaseURL = srv.URL
	gate := ratelimit.NewGate(0.001, 1) // one token, effectively no refill
	client, err := NewClient(cfg, gate)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.GetTree(context.Background()); err != nil {
		t.Fatalf("first GetTree() error = %v", err)
	}
	if _, err := client.GetTree(context.Background()); !IsThrottled(err) {
		t.Fatalf("second GetTree() error = %v, want ErrThrottled", err)
	}
	if calls != 1 {
		t.Errorf("backend saw %d calls, want 1 (throttled trigger must not issue)", calls)
	}
}

func TestGetFileContentEncodesPath(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/api/workspace/file" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("path"); got != "/out/notes & drafts.md" {
			t.Errorf("path param = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "# hello"})
	}))
	defer srv.Close()

	content, err := testClient(t, srv).GetFileContent(context.Background(), "/out/notes & drafts.md")
	if err != nil {
		t.Fatalf("GetFileContent() error = %v", err)
	}
	if content != "# hello" {
		t.Errorf("content = %q", content)
	}
}

func TestGetFileContentNotFound(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "no such file", nethttp.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).GetFileContent(context.Background(), "/gone.txt")
	if !IsNotFound(err) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDownloadFileStreamsBody(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/api/workspace/file/download" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	body, size, err := testClient(t, srv).DownloadFile(context.Background(), "/big.bin")
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}
	defer body.Close()

	if size != int64(len(payload)) {
		t.Errorf("size = %d, want %d", size, len(payload))
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != payload {
		t.Error("downloaded payload does not match")
	}
}

// TestDownloadFileUnknownLength covers chunked responses: with no
// Content-Length advertised, the reported size is -1 and the body still
// streams in full.
func TestDownloadFileUnknownLength(t *testing.T) {
	payload := strings.Repeat("y", 4096)
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
		if f, ok := w.(nethttp.Flusher); ok {
			f.Flush() // force chunked encoding before the body goes out
		}
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	body, size, err := testClient(t, srv).DownloadFile(context.Background(), "/big.bin")
	if err != nil {
		t.Fatalf("DownloadFile() error = %v", err)
	}
	defer body.Close()

	if size != -1 {
		t.Errorf("size = %d, want -1 for unknown length", size)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != payload {
		t.Error("downloaded payload does not match")
	}
}

func TestDeleteFile(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Query().Get("path")
		w.WriteHeader(nethttp.StatusNoContent)
	}))
	defer srv.Close()

	if err := testClient(t, srv).DeleteFile(context.Background(), "/x.txt"); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if gotMethod != nethttp.MethodDelete || gotPath != "/x.txt" {
		t.Errorf("request = %s path=%q", gotMethod, gotPath)
	}
}

func TestDeleteFileErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "workspace is read-only", nethttp.StatusForbidden)
	}))
	defer srv.Close()

	err := testClient(t, srv).DeleteFile(context.Background(), "/x.txt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %q, want status and body excerpt", err)
	}
}

func TestUploadFileMultipart(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/api/workspace/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form field 'file' missing: %v", err)
		}
		defer f.Close()
		if header.Filename != "input.csv" {
			t.Errorf("filename = %q", header.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "a,b\n1,2\n" {
			t.Errorf("payload = %q", data)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"path": "/input.csv", "size": len(data)})
	}))
	defer srv.Close()

	ack, err := testClient(t, srv).UploadFile(context.Background(), "input.csv", strings.NewReader("a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if ack.Path != "/input.csv" {
		t.Errorf("ack = %+v", ack)
	}
}

func TestUploadFileEmptyAckBody(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer srv.Close()

	ack, err := testClient(t, srv).UploadFile(context.Background(), "x.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if ack == nil {
		t.Fatal("empty ack body should still produce an ack")
	}
}
