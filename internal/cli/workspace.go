// Package cli provides workspace commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/models"
	"github.com/agentdeck/agentdeck/internal/pathutil"
	"github.com/agentdeck/agentdeck/internal/tui"
	"github.com/agentdeck/agentdeck/internal/validation"
	"github.com/agentdeck/agentdeck/internal/workspace"
)

// newWorkspaceCmd creates the 'workspace' command group.
func newWorkspaceCmd() *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Browse and manage the agent's workspace",
		Long: `Workspace commands for the agent console.

Commands:
  view      - Interactive workspace browser (live polling, preview, download)
  tree      - Print the workspace tree once
  cat       - Print a workspace file to stdout
  download  - Download workspace files
  upload    - Upload local files to the workspace
  rm        - Delete a workspace file
  watch     - Poll the workspace and report changes`,
	}

	workspaceCmd.AddCommand(newWorkspaceViewCmd())
	workspaceCmd.AddCommand(newWorkspaceTreeCmd())
	workspaceCmd.AddCommand(newWorkspaceCatCmd())
	workspaceCmd.AddCommand(newWorkspaceDownloadCmd())
	workspaceCmd.AddCommand(newWorkspaceUploadCmd())
	workspaceCmd.AddCommand(newWorkspaceRmCmd())
	workspaceCmd.AddCommand(newWorkspaceWatchCmd())

	return workspaceCmd
}

// newWorkspaceViewCmd creates the 'workspace view' command.
func newWorkspaceViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Interactive workspace browser",
		Long: `Open the interactive workspace browser.

The view polls the console on a fixed interval and redraws the tree as
the agent creates and modifies files. Expansion state and the cursor
survive refreshes.

Keys:
  j/k or arrows  - move
  enter          - expand/collapse directory, preview file
  d              - download the selected file
  r              - refresh now
  esc            - close the preview pane
  q              - quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, cfg, err := getAPIClient()
			if err != nil {
				return err
			}

			syncer := workspace.NewSyncer(apiClient)
			controller := workspace.NewController(apiClient, syncer)

			downloadDir, err := pathutil.ResolveDownloadDir(cfg.DownloadDir)
			if err != nil {
				return fmt.Errorf("failed to resolve download directory: %w", err)
			}

			model := tui.NewModel(syncer, controller, tui.Options{
				PollInterval: cfg.PollInterval,
				DownloadDir:  downloadDir,
				EnableUpload: cfg.EnableUpload,
				EnableDelete: cfg.EnableDelete,
			})

			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("workspace view failed: %w", err)
			}
			return nil
		},
	}

	return cmd
}

// newWorkspaceTreeCmd creates the 'workspace tree' command.
func newWorkspaceTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the workspace tree",
		Long:  `Fetch the workspace tree once and print it with all directories expanded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, _, err := getAPIClient()
			if err != nil {
				return err
			}

			nodes, err := apiClient.GetTree(GetContext())
			if err != nil {
				return fmt.Errorf("failed to fetch workspace tree: %w", err)
			}
			if len(nodes) == 0 {
				fmt.Println("(workspace is empty)")
				return nil
			}

			// Expand everything for the one-shot listing.
			expansion := workspace.NewExpansionState()
			models.WalkNodes(nodes, func(node *models.FileNode, depth int) bool {
				if node.IsDir() {
					expansion.Expand(node.Path)
				}
				return true
			})

			for _, row := range tui.Flatten(nodes, expansion) {
				fmt.Println(tui.RowLabel(row))
			}
			return nil
		},
	}

	return cmd
}

// newWorkspaceCatCmd creates the 'workspace cat' command.
func newWorkspaceCatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a workspace file to stdout",
		Long: `Print the content of a workspace file to stdout.

Only text-like files can be printed (the same allow-list the interactive
preview uses). Binary formats must be downloaded instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, _, err := getAPIClient()
			if err != nil {
				return err
			}

			if err := validation.ValidateWorkspacePath(args[0]); err != nil {
				return err
			}

			syncer := workspace.NewSyncer(apiClient)
			controller := workspace.NewController(apiClient, syncer)

			if err := controller.Preview(GetContext(), args[0]); err != nil {
				if errors.Is(err, workspace.ErrNotPreviewable) {
					return fmt.Errorf("%s is not a text file; use 'workspace download' instead", args[0])
				}
				return err
			}

			sel := controller.Selected()
			if sel == nil {
				return fmt.Errorf("no content returned for %s", args[0])
			}
			fmt.Print(sel.Content)
			return nil
		},
	}

	return cmd
}

// newWorkspaceDownloadCmd creates the 'workspace download' command.
func newWorkspaceDownloadCmd() *cobra.Command {
	var outputDir string
	var overwrite bool

	cmd := &cobra.Command{
		Use:     "download <path>...",
		Aliases: []string{"dl"},
		Short:   "Download workspace files",
		Long: `Download one or more workspace files to a local directory.

Files are streamed to a temporary file and renamed into place, so an
interrupted download never leaves a truncated file under the final name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, cfg, err := getAPIClient()
			if err != nil {
				return err
			}

			if outputDir == "" {
				outputDir = cfg.DownloadDir
			}
			outputDir, err = pathutil.ResolveDownloadDir(outputDir)
			if err != nil {
				return fmt.Errorf("failed to resolve output directory: %w", err)
			}

			for _, p := range args {
				if err := validation.ValidateWorkspacePath(p); err != nil {
					return err
				}
			}

			return executeDownload(GetContext(), args, outputDir, overwrite, apiClient, GetLogger())
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (default: download_dir from config, else current directory)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing local files without prompting")

	return cmd
}

// newWorkspaceUploadCmd creates the 'workspace upload' command.
func newWorkspaceUploadCmd() *cobra.Command {
	var maxConcurrent int

	cmd := &cobra.Command{
		Use:     "upload <file>...",
		Aliases: []string{"up"},
		Short:   "Upload local files to the workspace",
		Long: `Upload one or more local files to the workspace root.

Uploads run concurrently; failures are reported per file and do not roll
back files that already made it.

This command is disabled by default. Enable it in the config file:

  [workspace.features]
  enable_upload = true`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, cfg, err := getAPIClient()
			if err != nil {
				return err
			}

			if !cfg.EnableUpload {
				return fmt.Errorf("uploads are disabled; set enable_upload = true under [workspace.features] to enable")
			}

			return executeUpload(GetContext(), args, maxConcurrent, apiClient, GetLogger())
		},
	}

	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Maximum concurrent uploads (0 = default)")

	return cmd
}

// newWorkspaceRmCmd creates the 'workspace rm' command.
func newWorkspaceRmCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a workspace file",
		Long: `Delete a file from the workspace.

Deletion always confirms first unless --force is given.

This command is disabled by default. Enable it in the config file:

  [workspace.features]
  enable_delete = true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, cfg, err := getAPIClient()
			if err != nil {
				return err
			}

			if !cfg.EnableDelete {
				return fmt.Errorf("deletes are disabled; set enable_delete = true under [workspace.features] to enable")
			}

			if err := validation.ValidateWorkspacePath(args[0]); err != nil {
				return err
			}

			ctx := GetContext()

			// Resolve the path against the live tree so the confirmation
			// names a real file, not a typo.
			nodes, err := apiClient.GetTree(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch workspace tree: %w", err)
			}
			node := models.FindNode(nodes, args[0])
			if node == nil {
				return fmt.Errorf("no such workspace file: %s", args[0])
			}
			if node.IsDir() {
				return fmt.Errorf("%s is a directory; only files can be deleted", args[0])
			}

			syncer := workspace.NewSyncer(apiClient)
			controller := workspace.NewController(apiClient, syncer)
			controller.StageDelete(*node)

			if !force {
				ok, err := confirmYesNo(fmt.Sprintf("Delete %s from the workspace?", node.Path))
				if err != nil {
					return err
				}
				if !ok {
					controller.CancelDelete()
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := controller.ConfirmDelete(ctx); err != nil {
				return fmt.Errorf("failed to delete %s: %w", node.Path, err)
			}

			fmt.Printf("✓ Deleted %s\n", node.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")

	return cmd
}

// newWorkspaceWatchCmd creates the 'workspace watch' command.
func newWorkspaceWatchCmd() *cobra.Command {
	var intervalSeconds int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the workspace and report changes",
		Long: `Poll the workspace on a fixed interval and print which paths
appeared and disappeared between snapshots. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient, cfg, err := getAPIClient()
			if err != nil {
				return err
			}
			log := GetLogger()

			interval := cfg.PollInterval
			if intervalSeconds > 0 {
				interval = time.Duration(intervalSeconds) * time.Second
			}

			syncer := workspace.NewSyncer(apiClient)
			poller := workspace.NewPoller(syncer, interval, log)

			var previous map[string]struct{}
			poller.OnRefresh = func(tree []models.FileNode, err error) {
				if err != nil {
					log.Error().Err(err).Msg("Refresh failed; keeping last snapshot")
					return
				}

				current := make(map[string]struct{})
				for _, p := range models.CollectPaths(tree) {
					current[p] = struct{}{}
				}

				if previous == nil {
					log.Info().Int("paths", len(current)).Msg("Watching workspace")
					previous = current
					return
				}

				var added, removed []string
				for p := range current {
					if _, ok := previous[p]; !ok {
						added = append(added, p)
					}
				}
				for p := range previous {
					if _, ok := current[p]; !ok {
						removed = append(removed, p)
					}
				}
				sort.Strings(added)
				sort.Strings(removed)

				for _, p := range added {
					fmt.Printf("+ %s\n", p)
				}
				for _, p := range removed {
					fmt.Printf("- %s\n", p)
				}

				previous = current
			}

			ctx := GetContext()
			fmt.Fprintf(os.Stderr, "Watching workspace every %s (Ctrl+C to stop)\n", interval)
			poller.Start(ctx)

			<-ctx.Done()
			poller.Stop()
			syncer.Close()
			return nil
		},
	}

	cmd.Flags().IntVarP(&intervalSeconds, "interval", "i", 0, "Poll interval in seconds (default: poll_interval_seconds from config)")

	return cmd
}
