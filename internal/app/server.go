// Package server wires the checklist service together and hosts its HTTP
// webhook endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/examops/checkbot/internal/checklist/catalog"
	"github.com/examops/checkbot/internal/checklist/classifier"
	"github.com/examops/checkbot/internal/checklist/engine"
	"github.com/examops/checkbot/internal/checklist/media"
	"github.com/examops/checkbot/internal/checklist/notify"
	"github.com/examops/checkbot/internal/checklist/render"
	"github.com/examops/checkbot/internal/checklist/storage/sqlite"
	"github.com/examops/checkbot/internal/platform/timeouts"
	"github.com/examops/checkbot/internal/webhook"
)

// Config holds everything the checklist server needs to run.
type Config struct {
	Port   int
	DBPath string
	Locale string

	EvolutionBaseURL  string
	EvolutionAPIKey   string
	EvolutionInstance string

	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIResponsesURL string
}

// Server hosts the checklist webhook service.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
}

// New creates a configured checklist server listening on the configured port.
func New(cfg Config) (*Server, error) {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Port, err)
	}
	store, err := openStore(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	cat, err := catalog.Load()
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	eng := engine.New(engine.Config{
		Catalog: cat,
		Store:   store,
		Photos:  store,
		Classifier: classifier.NewOpenAIClassifier(classifier.OpenAIConfig{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			ResponsesURL: cfg.OpenAIResponsesURL,
			HTTPClient:   &http.Client{Timeout: timeouts.Classify},
		}, cat),
		Fetcher: media.NewHTTPFetcher(&http.Client{Timeout: timeouts.MediaFetch}),
	})
	notifier := notify.NewEvolutionNotifier(notify.EvolutionConfig{
		BaseURL:    cfg.EvolutionBaseURL,
		APIKey:     cfg.EvolutionAPIKey,
		Instance:   cfg.EvolutionInstance,
		HTTPClient: &http.Client{Timeout: timeouts.Notify},
	})

	mux := http.NewServeMux()
	webhook.NewHandler(eng, notifier, render.NewPrinter(cfg.Locale)).RegisterRoutes(mux)

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

// Addr returns the listener address for the checklist server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a checklist server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	srv, err := New(cfg)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve starts the checklist server and blocks until it stops or the context
// ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	log.Printf("checklist server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

func openStore(path string) (*sqlite.Store, error) {
	if path == "" {
		path = filepath.Join("data", "checklist.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checklist sqlite store: %w", err)
	}
	return store, nil
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close checklist store: %v", err)
	}
}
