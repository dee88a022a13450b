package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"neurabase/internal/adapter/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API serving the upload page, file uploads, questions and
health checks.

Endpoints:
  GET  /        upload and question page
  POST /upload  multipart "files" field, one or more documents
  POST /query   {"query": "...", "top_k": 3}
  GET  /health  liveness and index size`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	logger := GetLogger()

	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create data directories: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := httpapi.NewServer(a.ingest, a.retrieve, a.query, httpapi.Options{
		UploadDir:         cfg.Upload.Dir,
		MaxBytes:          cfg.Upload.MaxBytes,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		Workers:           cfg.Upload.Workers,
		StaticDir:         cfg.Server.StaticDir,
	}, logger)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	logger.Info("starting NeuraBase",
		"backend", cfg.Index.Backend,
		"embedder", a.embedder.ModelName(),
		"llm", a.llm.ModelName(),
	)
	return srv.Run(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}
