// Package api serves grid overlays over HTTP.
//
// # Endpoints
//
//	GET    /healthz                     liveness check
//	GET    /v1/render                   render from query parameters
//	POST   /v1/render                   render from a JSON body
//	GET    /v1/presets                  list presets
//	POST   /v1/presets                  create or replace a preset
//	GET    /v1/presets/{name}           fetch a preset
//	DELETE /v1/presets/{name}           delete a preset
//	GET    /v1/presets/{name}/render    render a preset
//
// Render endpoints return the artifact bytes with the format's content type,
// an ETag derived from the artifact cache key, and X-Cache: HIT or MISS.
// Besides viewport, zoom, type and grid_size they accept format, width,
// height, background, class, summary (JSON only) and refresh. Requests that
// would generate more grid elements than the runner's budget fail with
// INVALID_VIEWPORT. Errors are JSON objects {"code": "...", "message": "..."}.
//
// # Usage
//
//	srv := api.New(runner, store, api.Options{Logger: logger})
//	err := srv.ListenAndServe(ctx, ":8080")
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/pipeline"
	"github.com/matzehuels/gridkit/pkg/preset"
)

// Server defaults.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 60 * time.Second

	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	Logger *log.Logger

	// Theme and Background apply to requests that do not set them.
	Theme      grid.Theme
	Background string

	RequestTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Server is the gridkit HTTP service.
type Server struct {
	runner  *pipeline.Runner
	presets preset.Store
	opts    Options
	log     *log.Logger
	router  chi.Router
}

// New creates a server. presets may be nil, in which case preset endpoints
// respond 501.
func New(runner *pipeline.Runner, presets preset.Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}

	s := &Server{
		runner:  runner,
		presets: presets,
		opts:    opts,
		log:     opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/render", s.handleRenderQuery)
		r.Post("/render", s.handleRenderBody)

		r.Route("/presets", func(r chi.Router) {
			r.Use(s.requirePresets)
			r.Get("/", s.handleListPresets)
			r.Post("/", s.handleSavePreset)
			r.Get("/{name}", s.handleGetPreset)
			r.Delete("/{name}", s.handleDeletePreset)
			r.Get("/{name}/render", s.handleRenderPreset)
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
