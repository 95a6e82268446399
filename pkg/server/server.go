// Package server exposes the codec, layout generator and renderer over a
// stateless HTTP API.
//
// Routes:
//
//	GET  /healthz            liveness and version
//	POST /api/encode         bouquet JSON -> payload and share URL
//	GET  /api/decode?data=   payload or share URL -> bouquet JSON
//	GET  /api/layout         one placement (policy, index, seed)
//	GET  /api/themes[/{id}]  theme catalog
//	GET  /api/flowers[/{id}] flower catalog
//	POST /api/shorten        shorten a URL, when a shortener is configured
//	GET  /view?data=         SVG, PNG or PDF preview
//
// Errors are JSON objects {"code", "message"} whose status follows
// [errors.HTTPStatus].
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bouqlink/bouqlink/pkg/cache"
	bqerrors "github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	"github.com/bouqlink/bouqlink/pkg/layout"
	"github.com/bouqlink/bouqlink/pkg/share"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

const (
	// RequestTimeout bounds every request, including preview conversion.
	RequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get after the
	// serving context is cancelled.
	ShutdownTimeout = 10 * time.Second

	maxBodyBytes = 64 << 10
	renderTTL    = 24 * time.Hour
)

// Options configures a Server. Zero values select the built-in catalogs, the
// default share base, no shortener, no render cache and a discarding logger.
type Options struct {
	BaseURL   string
	Policy    layout.Policy
	Shortener *share.Shortener
	Cache     cache.Cache
	Themes    *themes.Catalog
	Flowers   *flowers.Catalog
	Logger    *log.Logger
}

// Server handles API requests. It holds no per-bouquet state.
type Server struct {
	base      string
	policy    layout.Policy
	shortener *share.Shortener
	cache     cache.Cache
	keyer     cache.Keyer
	themes    *themes.Catalog
	flowers   *flowers.Catalog
	logger    *log.Logger
}

// New returns a Server for opts.
func New(opts Options) *Server {
	s := &Server{
		base:      opts.BaseURL,
		policy:    opts.Policy,
		shortener: opts.Shortener,
		cache:     opts.Cache,
		keyer:     cache.NewKeyer("bouqlink"),
		themes:    opts.Themes,
		flowers:   opts.Flowers,
		logger:    opts.Logger,
	}
	if s.base == "" {
		s.base = share.DefaultBase
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.themes == nil {
		s.themes = themes.Builtin()
	}
	if s.flowers == nil {
		s.flowers = flowers.Builtin()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound("no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, bqerrors.ErrCodeUnsupported,
			fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/healthz", s.health)
	r.Get("/view", s.view)

	r.Route("/api", func(r chi.Router) {
		r.Post("/encode", s.encode)
		r.Get("/decode", s.decode)
		r.Get("/layout", s.layout)
		r.Get("/themes", s.listThemes)
		r.Get("/themes/{id}", s.getTheme)
		r.Get("/flowers", s.listFlowers)
		r.Get("/flowers/{id}", s.getFlower)
		r.Post("/shorten", s.shorten)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
