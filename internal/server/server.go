package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/atikulmunna/logdash/internal/aggregator"
	"github.com/atikulmunna/logdash/internal/dashboard"
	"github.com/atikulmunna/logdash/internal/hub"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Options carries the optional live-tail components. Both may be nil, in
// which case /ws and /api/live/stats answer 404.
type Options struct {
	Hub        *hub.Hub
	Aggregator *aggregator.Aggregator
}

// Server exposes the dashboard over HTTP.
type Server struct {
	engine     *gin.Engine
	dash       *dashboard.Dashboard
	hub        *hub.Hub
	aggregator *aggregator.Aggregator
	addr       string
}

func New(d *dashboard.Dashboard, addr string, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), observe())

	// Disable automatic redirects that cause 301 issues.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:     engine,
		dash:       d,
		hub:        opts.Hub,
		aggregator: opts.Aggregator,
		addr:       addr,
	}

	s.setupRoutes()
	return s
}

// Handler returns the routed engine.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	{
		api.GET("/entries", s.listEntries)
		api.DELETE("/entries/selected", s.deleteSelected)
		api.POST("/sort/:field", s.toggleSort)
		api.POST("/page/next", s.nextPage)
		api.POST("/page/prev", s.prevPage)
		api.GET("/sources", s.sources)
		api.GET("/stats", s.stats)
		api.GET("/live/stats", s.liveStats)
		api.POST("/refresh", s.refresh)
		api.POST("/auto-refresh", s.toggleAutoRefresh)

		api.GET("/selection", s.selection)
		api.POST("/selection/:id/toggle", s.toggleSelection)
		api.POST("/selection/page", s.selectPage)
		api.DELETE("/selection", s.clearSelection)

		api.GET("/export", s.exportFiltered)
		api.GET("/export/selected", s.exportSelected)

		api.GET("/files", s.listFiles)
		api.GET("/files/:id", s.getFile)
		api.POST("/files", s.uploadFile)
		api.POST("/files/:id/analyze", s.analyzeFile)

		api.GET("/search", s.search)
	}

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{
		"status":       "ok",
		"entries":      s.dash.Store().Len(),
		"auto_refresh": s.dash.AutoRefreshEnabled(),
	}
	if s.aggregator != nil {
		stats := s.aggregator.Snapshot()
		body["uptime"] = stats.Uptime
		body["files_watched"] = stats.FilesWatched
		body["eps"] = stats.EPS
		body["dropped_logs"] = stats.DroppedLogs
	}
	c.JSON(http.StatusOK, body)
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown", "error", err)
		}
	}()

	slog.Info("dashboard listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
