// Package httpapi exposes the ingestion and query pipelines over HTTP.
package httpapi

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"neurabase/internal/usecase"
)

//go:embed static/index.html
var staticFS embed.FS

const serviceName = "NeuraBase RAG Engine"

// Options holds the HTTP-facing settings of the server.
type Options struct {
	UploadDir         string
	MaxBytes          int64
	AllowedExtensions []string
	Workers           int
	StaticDir         string
}

// Server routes requests to the pipelines.
type Server struct {
	ingest   *usecase.IngestUseCase
	retrieve *usecase.RetrieveUseCase
	query    *usecase.QueryUseCase
	opts     Options
	allowed  map[string]bool
	logger   *slog.Logger
}

func NewServer(
	ingest *usecase.IngestUseCase,
	retrieve *usecase.RetrieveUseCase,
	query *usecase.QueryUseCase,
	opts Options,
	logger *slog.Logger,
) *Server {
	allowed := make(map[string]bool, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Server{
		ingest:   ingest,
		retrieve: retrieve,
		query:    query,
		opts:     opts,
		allowed:  allowed,
		logger:   logger,
	}
}

// Handler returns the routed handler wrapped in request id and access log
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /health", s.handleHealth)

	return withRequestID(withAccessLog(mux, s.logger))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
