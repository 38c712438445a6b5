// Package server exposes the invoice pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness check
//	POST /invoices             JSON document → issued PDF (attachment)
//	POST /invoices/preview     JSON document → totals and VAT breakdown
//	GET  /invoices             ledger records, filtered by ?year=&kind=&client=
//	GET  /invoices/{id}        one ledger record
//
// Errors are JSON objects {"code": ..., "message": ...} whose status follows
// the error code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/facture/pkg/errors"
	"github.com/matzehuels/facture/pkg/pipeline"
)

// MaxBodyBytes bounds request documents.
const MaxBodyBytes = 1 << 20

// Server serves the API for one runner.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New creates a server issuing documents with runner. opts is the base for
// every run; its OutputPath is ignored so each document gets its own file.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	opts.OutputPath = ""
	s := &Server{runner: runner, opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", s.handleIssue)
		r.Post("/preview", s.handlePreview)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    string(errors.ErrCodeUnsupported),
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
