// Package web provides the HTTP server, HTML report and JSON API for
// condour scans.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/evcraddock/condour/internal/logging"
	"github.com/evcraddock/condour/internal/scan"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Scanner runs product scans. *scan.Service satisfies it.
type Scanner interface {
	Run(ctx context.Context, req scan.Request, progress scan.ProgressFunc) (*scan.Result, error)
}

// Server is the web UI and API HTTP server.
type Server struct {
	scanner   Scanner
	templates *template.Template
	mux       *http.ServeMux
	validate  *validator.Validate

	mu     sync.RWMutex
	latest *scan.Result
}

// NewServer creates a web server that runs scans with scanner.
func NewServer(scanner Scanner) (*Server, error) {
	funcMap := template.FuncMap{
		"ago":       tmplAgo,
		"comma":     tmplComma,
		"markdown":  renderMarkdown,
		"label":     tmplLabel,
		"indent":    tmplIndent,
		"avg":       tmplAvg,
		"timestamp": tmplTimestamp,
		"scanURL":   scanURL,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		scanner:   scanner,
		templates: tmpl,
		mux:       http.NewServeMux(),
		validate:  validator.New(),
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/scan", s.handleAPIScan)
	s.mux.HandleFunc("/api/scan/latest", s.handleAPILatest)
	s.mux.HandleFunc("/scan", s.handleScanPage)
	s.mux.HandleFunc("/", s.handleIndex)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the server wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logging.RequestLogger(s)
}

// ListenAndServe serves on port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("web UI listening", "url", fmt.Sprintf("http://localhost:%d", port))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// Latest returns the most recently completed scan, or nil.
func (s *Server) Latest() *scan.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Server) setLatest(r *scan.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = r
}

// runScan runs a scan and records it as the latest result.
func (s *Server) runScan(ctx context.Context, req scan.Request) (*scan.Result, error) {
	result, err := s.scanner.Run(ctx, req, func(e scan.Event) {
		slog.Debug("scan progress", "request_id", logging.RequestID(ctx), "level", e.Level, "message", e.Message)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("scan complete",
		"request_id", logging.RequestID(ctx),
		"id", result.ID,
		"product", result.ProductName,
		"source", result.Source,
		"posts", len(result.Posts),
		"comments", len(result.Comments),
	)
	s.setLatest(result)
	return result, nil
}
