package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/constants"
	"github.com/agentdeck/agentdeck/internal/logging"
)

// executeUpload - common upload logic for the workspace upload command.
// Uploads run concurrently under a semaphore; each gets its own mpb bar.
// A failed file does not roll back files that already uploaded.
func executeUpload(
	ctx context.Context,
	localPaths []string,
	maxConcurrent int,
	apiClient *api.Client,
	logger *logging.Logger,
) error {
	if len(localPaths) == 0 {
		return fmt.Errorf("at least one local file is required")
	}

	if maxConcurrent <= 0 {
		maxConcurrent = constants.DefaultMaxConcurrent
	}
	if maxConcurrent < constants.MinMaxConcurrent || maxConcurrent > constants.MaxMaxConcurrent {
		fmt.Fprintf(os.Stderr, "Warning: --max-concurrent must be between %d and %d, using %d\n",
			constants.MinMaxConcurrent, constants.MaxMaxConcurrent, constants.DefaultMaxConcurrent)
		maxConcurrent = constants.DefaultMaxConcurrent
	}

	// Stat everything up front so a typo fails before any bytes move.
	sizes := make(map[string]int64, len(localPaths))
	for _, p := range localPaths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", p, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory; only files can be uploaded", p)
		}
		sizes[p] = info.Size()
	}

	logger.Info().
		Int("count", len(localPaths)).
		Int("concurrency", maxConcurrent).
		Msg("Starting workspace upload")

	fmt.Printf("Uploading %d file(s) to the workspace\n\n", len(localPaths))

	var wg sync.WaitGroup
	progress := mpb.New(mpb.WithWaitGroup(&wg), mpb.WithWidth(60))

	semaphore := make(chan struct{}, maxConcurrent)
	errChan := make(chan error, len(localPaths))
	var uploadedMu sync.Mutex
	uploaded := 0

	for _, localPath := range localPaths {
		wg.Add(1)
		go func(localPath string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			name := filepath.Base(localPath)
			bar := progress.AddBar(sizes[localPath],
				mpb.PrependDecorators(
					decor.Name(name, decor.WCSyncWidth),
					decor.Name("  "),
					decor.Percentage(decor.WCSyncSpace),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				),
			)

			f, err := os.Open(localPath)
			if err != nil {
				bar.Abort(false)
				errChan <- fmt.Errorf("failed to open %s: %w", localPath, err)
				return
			}
			defer f.Close()

			reader := bar.ProxyReader(f)
			defer reader.Close()

			if _, err := apiClient.UploadFile(ctx, name, reader); err != nil {
				bar.Abort(false)
				errChan <- fmt.Errorf("failed to upload %s: %w", name, err)
				return
			}

			logger.Info().Str("file", name).Msg("File uploaded successfully")
			uploadedMu.Lock()
			uploaded++
			uploadedMu.Unlock()
		}(localPath)
	}

	progress.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	fmt.Printf("\n✓ Successfully uploaded %d file(s)\n", uploaded)
	if len(errs) > 0 {
		fmt.Printf("✗ Failed to upload %d file(s)\n", len(errs))
		for _, err := range errs {
			fmt.Printf("  %v\n", err)
		}
		return errs[0]
	}
	return nil
}
