// Package cli provides configuration management commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage agentdeck configuration",
		Long: `Configuration management commands for agentdeck.

Commands:
  show     - Display current configuration
  set-url  - Set the console base URL
  set-key  - Set the API key (prompted, not echoed)
  path     - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigSetURLCmd())
	configCmd.AddCommand(newConfigSetKeyCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// resolveConfigPath returns the --config flag value or the default path.
func resolveConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/agentdeck/config)
  2. Environment variables (AGENTDECK_API_KEY)
  3. Command-line flags (--api-key, --token-file, --api-url)

Priority: flags > token file > config file > environment > defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Println("Current Configuration")
			fmt.Println("=====================")
			fmt.Println()

			fmt.Println("Console:")
			fmt.Printf("  Base URL: %s\n", cfg.BaseURL)
			if cfg.APIKey != "" {
				// Never display any portion of the key itself.
				fmt.Printf("  API Key:  <set (%d chars)>\n", len(cfg.APIKey))
			} else {
				fmt.Println("  API Key:  <not set>")
			}
			fmt.Println()

			fmt.Println("Workspace:")
			fmt.Printf("  Poll Interval:   %s\n", cfg.PollInterval)
			fmt.Printf("  Request Spacing: %s\n", cfg.RequestSpacing)
			if cfg.DownloadDir != "" {
				fmt.Printf("  Download Dir:    %s\n", cfg.DownloadDir)
			}
			fmt.Printf("  Uploads Enabled: %t\n", cfg.EnableUpload)
			fmt.Printf("  Deletes Enabled: %t\n", cfg.EnableDelete)
			fmt.Println()

			fmt.Println("Proxy:")
			fmt.Printf("  Mode: %s\n", cfg.ProxyMode)
			if cfg.ProxyHost != "" {
				fmt.Printf("  Host: %s\n", cfg.ProxyHost)
				fmt.Printf("  Port: %d\n", cfg.ProxyPort)
			}
			if cfg.NoProxy != "" {
				fmt.Printf("  Bypass: %s\n", cfg.NoProxy)
			}
			fmt.Println()

			configPath, err := resolveConfigPath()
			if err == nil {
				fmt.Printf("Configuration file: %s\n", configPath)
				if _, err := os.Stat(configPath); os.IsNotExist(err) {
					fmt.Println("  (file does not exist - using defaults)")
				}
			}

			return nil
		},
	}

	return cmd
}

// newConfigSetURLCmd creates the 'config set-url' command.
func newConfigSetURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-url <url>",
		Short: "Set the console base URL",
		Long: `Set the console base URL and save it to the configuration file.

Example:
  agentdeck config set-url http://localhost:8005`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL := strings.TrimSpace(args[0])
			if baseURL == "" {
				return config.ErrMissingBaseURL
			}

			configPath, err := resolveConfigPath()
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.BaseURL = baseURL

			if err := config.Save(cfg, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			GetLogger().Info().Str("path", configPath).Msg("Configuration saved")
			fmt.Printf("✓ Console URL set to: %s\n", baseURL)
			return nil
		},
	}

	return cmd
}

// newConfigSetKeyCmd creates the 'config set-key' command.
func newConfigSetKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Set the API key",
		Long: `Prompt for the console API key and save it to the configuration file.

The key is read without echoing. The config file is created owner-only
(0600) because it holds the key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := promptSecret("API Key: ")
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("no key entered, nothing saved")
			}

			configPath, err := resolveConfigPath()
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg.APIKey = key

			if err := config.Save(cfg, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			GetLogger().Info().Str("path", configPath).Msg("API key saved")
			fmt.Printf("✓ API key saved to: %s\n", configPath)
			return nil
		},
	}

	return cmd
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath()
			if err != nil {
				return err
			}

			if cfgFile != "" {
				fmt.Println("Configuration path (from --config flag):")
			} else {
				fmt.Println("Default configuration path:")
			}
			fmt.Printf("  %s\n", configPath)
			fmt.Println()

			if info, err := os.Stat(configPath); err == nil {
				fmt.Println("Status: ✓ File exists")
				fmt.Printf("Size:   %d bytes\n", info.Size())
				fmt.Printf("Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Println("Status: File does not exist")
				fmt.Println()
				fmt.Println("Create one with: agentdeck config set-url <url>")
			}

			return nil
		},
	}

	return cmd
}
