// Package api serves the card lookup HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"snowthaw/internal/domain"
	"snowthaw/internal/eventbus"
	"snowthaw/internal/log"
	"snowthaw/internal/store"
)

// Store is the card storage the server reads and writes
type Store interface {
	Search(ctx context.Context, p store.SearchParams) ([]domain.SearchHit, error)
	Get(ctx context.Context, id string) (*domain.Card, error)
	InsertMany(ctx context.Context, cards []domain.Card) error
	Count(ctx context.Context) (int, error)
}

// Options configures a Server
type Options struct {
	// APIKey guards the admin routes; empty disables them
	APIKey string
	// AllowedOrigins lists CORS origins; empty allows any
	AllowedOrigins []string
	SearchLimit    int
	SnippetWindow  int
	MaxSnippets    int
	// MaxUploadBytes bounds a multipart upload in memory
	MaxUploadBytes int64
}

// Server holds the HTTP handlers
type Server struct {
	store  Store
	opts   Options
	bus    eventbus.EventBus
	logger *log.Logger
}

// NewServer creates a server. bus may be nil.
func NewServer(st Store, opts Options, bus eventbus.EventBus) *Server {
	if opts.SearchLimit < 1 {
		opts.SearchLimit = 50
	}
	if opts.SnippetWindow < 1 {
		opts.SnippetWindow = 40
	}
	if opts.MaxSnippets < 1 {
		opts.MaxSnippets = 99
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &Server{
		store:  st,
		opts:   opts,
		bus:    bus,
		logger: log.ForService("api"),
	}
}

// Handler returns the complete handler: routes, CORS and gzip compression
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return gzhttp.GzipHandler(s.corsMiddleware(s.logMiddleware(mux)))
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", ln.Addr())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
