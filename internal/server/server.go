package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/archgen/archgen/pkg/cache"
	"github.com/archgen/archgen/pkg/pipeline"
	"github.com/archgen/archgen/pkg/theme"
)

// Server wires the pipeline runner into an HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	theme  *theme.Theme
	logger *log.Logger
}

// New builds a server from config: cache backend, theme, runner, routes.
// The returned cleanup function closes the cache and must be called on
// shutdown.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Server, func(), error) {
	if logger == nil {
		logger = log.Default()
	}

	c, err := newCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	th := theme.Default()
	if cfg.ThemePath != "" {
		th, err = theme.Load(cfg.ThemePath)
		if err != nil {
			_ = c.Close()
			return nil, nil, err
		}
	}

	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(c, logger),
		theme:  th,
		logger: logger,
	}
	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Warn("cache close failed", "err", err)
		}
	}
	return s, cleanup, nil
}

// newCache selects the cache backend: Redis when configured, then the file
// cache, then no caching at all.
func newCache(ctx context.Context, cfg Config, logger *log.Logger) (cache.Cache, error) {
	switch {
	case cfg.RedisAddr != "":
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, "archgen:")
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		logger.Info("using redis artifact cache", "addr", cfg.RedisAddr)
		return c, nil
	case cfg.CacheDir != "":
		c, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		logger.Info("using file artifact cache", "dir", cfg.CacheDir)
		return c, nil
	}
	logger.Info("artifact caching disabled")
	return cache.NewNullCache(), nil
}

// Routes assembles the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(55 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/generate", s.handleGenerate)
		r.Post("/render", s.handleRender)
		r.Post("/validate", s.handleValidate)
	})
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// logRequests logs one line per request with the chi request id.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
