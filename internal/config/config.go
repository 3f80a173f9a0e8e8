// Package config provides configuration management for agentdeck.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds the console connection settings plus the workspace panel
// tuning knobs.
//
// Config file location: ~/.config/agentdeck/config (os.UserConfigDir based).
//
// INI format:
//
//	[console]
//	base_url = http://localhost:8005
//	api_key = <token>
//
//	[workspace]
//	poll_interval_seconds = 20
//	request_spacing_seconds = 1
//	download_dir = ~/Downloads
//
//	[workspace.features]
//	enable_upload = false
//	enable_delete = false
//
//	[proxy]
//	mode = no-proxy
//	host =
//	port = 0
//	user =
//	password =
//	no_proxy =
type Config struct {
	// Console connection settings
	BaseURL string
	APIKey  string

	// Workspace panel settings
	PollInterval   time.Duration
	RequestSpacing time.Duration
	DownloadDir    string

	// Feature flags. Upload and delete are fully implemented but shipped
	// inert: the state machines and endpoints exist, only the user-facing
	// triggers check these flags. Flip in the config file to re-enable.
	EnableUpload bool
	EnableDelete bool

	// Proxy settings: "no-proxy", "system", "basic", "ntlm"
	ProxyMode     string
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string
	NoProxy       string // comma-separated bypass list
}

// Validation errors.
var (
	ErrMissingBaseURL     = errors.New("base_url is required")
	ErrInvalidPollSeconds = errors.New("poll_interval_seconds must be between 5 and 3600")
	ErrInvalidSpacing     = errors.New("request_spacing_seconds must be between 0 and 60")
)

// New returns a Config with default values: local console, 20s polling,
// 1s request spacing, features off, no proxy.
func New() *Config {
	return &Config{
		BaseURL:        "http://localhost:8005",
		PollInterval:   20 * time.Second,
		RequestSpacing: 1 * time.Second,
		ProxyMode:      "no-proxy",
	}
}

// DefaultPath returns the default config file path
// (~/.config/agentdeck/config on Unix).
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "agentdeck", "config"), nil
}

// Load reads configuration from an INI file. If path is empty the default
// path is used. A missing file is not an error: defaults are returned so a
// first run works against a local console.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	console := f.Section("console")
	cfg.BaseURL = console.Key("base_url").MustString(cfg.BaseURL)
	cfg.APIKey = console.Key("api_key").String()

	ws := f.Section("workspace")
	cfg.PollInterval = time.Duration(ws.Key("poll_interval_seconds").MustInt(20)) * time.Second
	cfg.RequestSpacing = time.Duration(ws.Key("request_spacing_seconds").MustFloat64(1)*1000) * time.Millisecond
	cfg.DownloadDir = ws.Key("download_dir").String()

	features := f.Section("workspace.features")
	cfg.EnableUpload = features.Key("enable_upload").MustBool(false)
	cfg.EnableDelete = features.Key("enable_delete").MustBool(false)

	proxy := f.Section("proxy")
	cfg.ProxyMode = proxy.Key("mode").MustString("no-proxy")
	cfg.ProxyHost = proxy.Key("host").String()
	cfg.ProxyPort = proxy.Key("port").MustInt(0)
	cfg.ProxyUser = proxy.Key("user").String()
	cfg.ProxyPassword = proxy.Key("password").String()
	cfg.NoProxy = proxy.Key("no_proxy").String()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to an INI file, creating parent directories
// as needed. The API key is stored in the file, so the file and directory
// are created owner-only.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f := ini.Empty()

	console, err := f.NewSection("console")
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	console.Key("base_url").SetValue(cfg.BaseURL)
	console.Key("api_key").SetValue(cfg.APIKey)

	ws, err := f.NewSection("workspace")
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	ws.Key("poll_interval_seconds").SetValue(fmt.Sprintf("%d", int(cfg.PollInterval/time.Second)))
	ws.Key("request_spacing_seconds").SetValue(fmt.Sprintf("%g", cfg.RequestSpacing.Seconds()))
	ws.Key("download_dir").SetValue(cfg.DownloadDir)

	features, err := f.NewSection("workspace.features")
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	features.Key("enable_upload").SetValue(fmt.Sprintf("%t", cfg.EnableUpload))
	features.Key("enable_delete").SetValue(fmt.Sprintf("%t", cfg.EnableDelete))

	proxy, err := f.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	proxy.Key("mode").SetValue(cfg.ProxyMode)
	proxy.Key("host").SetValue(cfg.ProxyHost)
	proxy.Key("port").SetValue(fmt.Sprintf("%d", cfg.ProxyPort))
	proxy.Key("user").SetValue(cfg.ProxyUser)
	proxy.Key("password").SetValue(cfg.ProxyPassword)
	proxy.Key("no_proxy").SetValue(cfg.NoProxy)

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return os.Chmod(path, 0600)
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if c.PollInterval < 5*time.Second || c.PollInterval > time.Hour {
		return ErrInvalidPollSeconds
	}
	if c.RequestSpacing < 0 || c.RequestSpacing > time.Minute {
		return ErrInvalidSpacing
	}
	return nil
}

// ResolveAPIKey returns an API key by checking sources in priority order:
//
//  1. Explicitly provided key (e.g. --api-key flag)
//  2. Token file (e.g. --token-file flag)
//  3. Config file value (already loaded into c)
//  4. AGENTDECK_API_KEY environment variable
//
// Returns empty string if no source yields a key; an empty key is valid
// against a local console that runs without auth.
func (c *Config) ResolveAPIKey(apiKey, tokenFile string) (string, error) {
	if apiKey != "" {
		return apiKey, nil
	}
	if tokenFile != "" {
		data, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	return os.Getenv("AGENTDECK_API_KEY"), nil
}
