package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"timepick-cli/internal/metrics"
	"timepick-cli/internal/session"
)

type Config struct {
	Addr      string
	RateLimit float64
	Burst     int
}

// Server exposes one session over HTTP. Every handler runs under one mutex so the
// pickers only ever see one caller at a time.
type Server struct {
	mu       sync.Mutex
	sess     *session.Session
	log      *zap.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	limiters *limiterStore
	engine   *gin.Engine
	cfg      Config
}

// New builds the router. m and registry may be nil, in which case /metrics serves an
// empty registry and requests are not counted.
func New(sess *session.Session, cfg Config, log *zap.Logger, m *metrics.Metrics, registry *prometheus.Registry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	s := &Server{
		sess:     sess,
		log:      log,
		metrics:  m,
		registry: registry,
		limiters: newLimiterStore(cfg.RateLimit, cfg.Burst),
		cfg:      cfg,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(s.rateLimit())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.GET("/docs", s.docs)
	r.GET("/docs/:topic", s.docs)

	api := r.Group("/api")
	{
		api.GET("/fields", s.locked(s.listFields))
		api.PUT("/fields/:id", s.locked(s.putField))

		api.GET("/pickers", s.locked(s.listPickers))
		api.GET("/pickers/:id", s.locked(s.getPicker))
		api.GET("/pickers/:id/check", s.locked(s.checkPicker))
		api.POST("/pickers/:id/open", s.locked(s.openPicker))
		api.POST("/pickers/:id/hide", s.locked(s.hidePicker))
		api.POST("/pickers/:id/cancel", s.locked(s.cancelPicker))
		api.POST("/pickers/:id/confirm", s.locked(s.confirmPicker))
		api.POST("/pickers/:id/select", s.locked(s.selectPicker))
	}
	return r
}

func (s *Server) locked(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(c)
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("web listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("web shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
