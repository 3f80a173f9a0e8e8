package http

import (
	nethttp "net/http"
	"net/url"
	"testing"

	"github.com/agentdeck/agentdeck/internal/config"
)

func TestConfigureHTTPClientNoProxy(t *testing.T) {
	cfg := config.New()
	cfg.ProxyMode = "no-proxy"

	client, err := ConfigureHTTPClient(cfg)
	if err != nil {
		t.Fatalf("ConfigureHTTPClient() error = %v", err)
	}

	tr, ok := client.Transport.(*nethttp.Transport)
	if !ok {
		t.Fatalf("transport is %T, want *http.Transport", client.Transport)
	}
	if tr.Proxy != nil {
		t.Error("no-proxy mode should leave Proxy nil")
	}
}

func TestConfigureHTTPClientRejectsUnknownMode(t *testing.T) {
	cfg := config.New()
	cfg.ProxyMode = "socks5"

	if _, err := ConfigureHTTPClient(cfg); err == nil {
		t.Error("unknown proxy mode should be rejected")
	}
}

func TestBasicModeWithoutHostFallsBack(t *testing.T) {
	cfg := config.New()
	cfg.ProxyMode = "basic"
	cfg.ProxyHost = ""

	client, err := ConfigureHTTPClient(cfg)
	if err != nil {
		t.Fatalf("ConfigureHTTPClient() error = %v", err)
	}
	tr := client.Transport.(*nethttp.Transport)
	if tr.Proxy != nil {
		t.Error("missing host should fall back to direct connection")
	}
}

func TestBuildProxyURLDefaultsPortAndCredentials(t *testing.T) {
	cfg := config.New()
	cfg.ProxyHost = "proxy.local"

	u := buildProxyURL(cfg)
	if u.Host != "proxy.local:8080" {
		t.Errorf("host = %q, want proxy.local:8080", u.Host)
	}
	if u.User != nil {
		t.Error("credentials should be absent when user/password are unset")
	}

	cfg.ProxyUser = "alice"
	u = buildProxyURL(cfg)
	if u.User != nil {
		t.Error("user without password should not be embedded")
	}

	cfg.ProxyPassword = "secret"
	u = buildProxyURL(cfg)
	if u.User == nil || u.User.Username() != "alice" {
		t.Errorf("credentials not embedded: %v", u.User)
	}
}

func TestProxyFuncWithBypass(t *testing.T) {
	proxyURL := &url.URL{Scheme: "http", Host: "proxy.local:8080"}
	proxyFn := proxyFuncWithBypass(proxyURL, "internal.example.com")

	reqDirect, _ := nethttp.NewRequest("GET", "http://internal.example.com/api", nil)
	if u, _ := proxyFn(reqDirect); u != nil {
		t.Errorf("bypass host should connect directly, got proxy %v", u)
	}

	reqProxied, _ := nethttp.NewRequest("GET", "http://console.example.com/api", nil)
	if u, _ := proxyFn(reqProxied); u == nil || u.Host != "proxy.local:8080" {
		t.Errorf("non-bypass host should go through proxy, got %v", u)
	}
}

func TestNeedsProxyPassword(t *testing.T) {
	cfg := config.New()
	cfg.ProxyMode = "basic"
	cfg.ProxyUser = "alice"

	if !NeedsProxyPassword(cfg) {
		t.Error("basic mode with user and no password should require a prompt")
	}

	cfg.ProxyPassword = "x"
	if NeedsProxyPassword(cfg) {
		t.Error("complete credentials should not require a prompt")
	}

	cfg = config.New()
	if NeedsProxyPassword(cfg) {
		t.Error("no-proxy mode should not require a prompt")
	}
}
