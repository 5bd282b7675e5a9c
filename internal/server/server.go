// Package server exposes the intake, report and download endpoints over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/intake"
	"github.com/agentgrowth/leadflow/internal/pipeline"
	"github.com/agentgrowth/leadflow/internal/resource"
)

// maxBodyBytes caps request bodies; the intake form is well under this.
const maxBodyBytes = 64 << 10

// Leads runs the intake and report paths.
type Leads interface {
	Submit(ctx context.Context, sub intake.Submission, meta pipeline.Meta) (pipeline.Accepted, error)
	Trigger(ctx context.Context, req pipeline.TriggerRequest) (analysis.Result, error)
}

// Downloads resolves resource download requests.
type Downloads interface {
	Download(ctx context.Context, req resource.Request) (resource.Link, error)
}

// Options configures the router.
type Options struct {
	// CORSOrigins lists the origins allowed to call the API from a browser.
	CORSOrigins []string
}

// NewRouter builds the HTTP handler.
func NewRouter(leads Leads, downloads Downloads, opts Options) http.Handler {
	h := &handlers{leads: leads, downloads: downloads}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", h.submitLead)
		r.Post("/reports", h.triggerReport)
		r.Post("/resources/download", h.download)
	})
	return r
}

// Config holds listener settings.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Run serves handler until ctx is cancelled, then drains in-flight requests
// for up to drain.
func Run(ctx context.Context, cfg Config, handler http.Handler, drain time.Duration) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}
