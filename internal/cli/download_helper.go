package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/logging"
	"github.com/agentdeck/agentdeck/internal/validation"
)

// executeDownload - common download logic for the workspace download command.
//
// Downloads run sequentially: the shared gate spaces workspace calls anyway,
// so parallelism would only interleave progress bars without going faster.
func executeDownload(
	ctx context.Context,
	paths []string,
	outputDir string,
	overwriteAll bool,
	apiClient *api.Client,
	logger *logging.Logger,
) error {
	if len(paths) == 0 {
		return fmt.Errorf("at least one workspace path is required")
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info().
		Int("count", len(paths)).
		Str("outdir", outputDir).
		Msg("Starting workspace download")

	fmt.Printf("Downloading %d file(s) to: %s\n\n", len(paths), outputDir)

	var downloaded, skipped, failed int
	var firstErr error

	for i, remotePath := range paths {
		name := path.Base(remotePath)
		if err := validation.ValidateFilename(name); err != nil {
			return fmt.Errorf("refusing to download %s: %w", remotePath, err)
		}
		outputPath := filepath.Join(outputDir, name)

		// Check if file exists and handle conflict
		if _, err := os.Stat(outputPath); err == nil && !overwriteAll {
			ok, perr := confirmYesNo(fmt.Sprintf("File %s already exists. Overwrite?", outputPath))
			if perr != nil {
				return perr
			}
			if !ok {
				fmt.Printf("⊘ Skipping %s\n", remotePath)
				skipped++
				continue
			}
		}

		fmt.Printf("[%d/%d] %s\n", i+1, len(paths), remotePath)

		if err := downloadOne(ctx, remotePath, outputPath, apiClient); err != nil {
			logger.Error().Err(err).Str("path", remotePath).Msg("Download failed")
			fmt.Printf("✗ Failed to download %s: %v\n", remotePath, err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		logger.Info().
			Str("path", remotePath).
			Str("dest", outputPath).
			Msg("File downloaded successfully")
		downloaded++
	}

	// Print summary
	fmt.Printf("\n✓ Successfully downloaded %d file(s)\n", downloaded)
	if skipped > 0 {
		fmt.Printf("⊘ Skipped %d file(s)\n", skipped)
	}
	if failed > 0 {
		fmt.Printf("✗ Failed to download %d file(s)\n", failed)
		return firstErr
	}
	return nil
}

// downloadOne streams a single workspace file to outputPath with a progress
// bar. The stream lands in a temporary file that is renamed into place only
// after a complete copy, and removed on any failure.
func downloadOne(ctx context.Context, remotePath, outputPath string, apiClient *api.Client) (err error) {
	body, size, err := apiClient.DownloadFile(ctx, remotePath)
	if err != nil {
		return err
	}
	defer body.Close()

	tmpPath := outputPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	bar := progressbar.DefaultBytes(size, filepath.Base(remotePath))

	if _, err = io.Copy(io.MultiWriter(out, bar), body); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err = os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", outputPath, err)
	}
	return nil
}
