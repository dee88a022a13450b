package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"neurabase/internal/adapter/fs"
	"neurabase/internal/usecase"
)

var (
	ingestExcludes []string
	ingestWorkers  int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Ingest documents into the index",
	Long: `Ingest files into the vector index. Directories are walked recursively
for files with an allowed extension (upload.allowed_extensions).

Examples:
  neurabase ingest report.pdf notes.txt
  neurabase ingest ./docs --exclude "**/drafts/**"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestExcludes, "exclude", nil, "glob patterns to skip while walking directories")
	ingestCmd.Flags().IntVarP(&ingestWorkers, "workers", "w", 0, "files ingested concurrently (default from upload.workers)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	walker := fs.NewWalker(fs.IncludesFor(cfg.Upload.AllowedExtensions), ingestExcludes)
	files, err := walker.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No matching files found.")
		return nil
	}

	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}

	a, err := newApp(cmd.Context(), cfg, GetLogger(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	workers := cfg.Upload.Workers
	if ingestWorkers > 0 {
		workers = ingestWorkers
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	startTime := time.Now()
	var processed int
	var mu sync.Mutex
	progress := func(usecase.FileOutcome) {
		mu.Lock()
		defer mu.Unlock()
		processed++
		bar.Add(1)

		elapsed := time.Since(startTime)
		rate := float64(processed) / elapsed.Seconds()
		if remaining := len(paths) - processed; rate > 0 && remaining > 0 {
			eta := time.Duration(float64(remaining)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Ingesting[reset] ETA: %s", formatDuration(eta)))
		}
	}

	outcomes := a.ingest.IngestBatch(cmd.Context(), paths, workers, progress)

	var chunks, failed int
	var failures []string
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			failures = append(failures, out.Err.Error())
			continue
		}
		chunks += out.Result.ChunksWritten
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Files ingested: %d\n", len(outcomes)-failed)
	fmt.Printf("  Files failed:   %d\n", failed)
	fmt.Printf("  Chunks written: %d\n", chunks)
	fmt.Printf("  Duration:       %s\n", formatDuration(time.Since(startTime)))

	if len(failures) > 0 {
		fmt.Printf("\nErrors:\n")
		for _, f := range failures {
			fmt.Printf("  - %s\n", f)
		}
	}

	if failed == len(outcomes) {
		return fmt.Errorf("no file could be ingested")
	}
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
