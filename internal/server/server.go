// Package server wires the gin router, middleware, and handlers together.
package server

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MujtabaTaimur/InstaMath/internal/analysis"
	"github.com/MujtabaTaimur/InstaMath/internal/config"
	"github.com/MujtabaTaimur/InstaMath/internal/graph"
	"github.com/MujtabaTaimur/InstaMath/internal/http"
	"github.com/MujtabaTaimur/InstaMath/internal/logging"
	"github.com/MujtabaTaimur/InstaMath/internal/middleware"
	"github.com/MujtabaTaimur/InstaMath/internal/monitoring"
	"github.com/MujtabaTaimur/InstaMath/internal/viewport"
	"github.com/MujtabaTaimur/InstaMath/internal/ws"
)

// Default screen size handed to the viewport; clients may re-project with
// their own dimensions via the transform endpoints.
const (
	defaultScreenW = 800
	defaultScreenH = 600
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	manager *graph.Manager
	metrics *monitoring.Metrics
	log     *logging.Logger
	httpSrv *nethttp.Server
}

// New creates a server from configuration.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	if log == nil {
		log = logging.NewDefault()
	}

	policy := analysis.SkipUndefined
	if cfg.Engine.PropagateUndefined {
		policy = analysis.PropagateUndefined
	}
	manager := graph.NewManager(graph.Options{
		DerivativeStep:    cfg.Engine.DerivativeStep,
		IntegralSteps:     cfg.Engine.IntegralSteps,
		RootSamples:       cfg.Engine.RootSamples,
		InflectionSamples: cfg.Engine.InflectionSamples,
		IntegralPolicy:    policy,
	}, log)

	metrics := monitoring.NewMetrics()
	vp := viewport.New(defaultScreenW, defaultScreenH)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(manager, vp, metrics, log)
	wsHandler := ws.NewHandler(manager, metrics, log)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Function collection
	router.POST("/functions", handlers.AddFunction)
	router.GET("/functions", handlers.ListFunctions)
	router.GET("/functions/:id", handlers.GetFunction)
	router.DELETE("/functions/:id", handlers.RemoveFunction)

	// Engine operations
	router.GET("/functions/:id/eval", handlers.EvaluateFunction)
	router.POST("/functions/:id/derivative", handlers.DeriveFunction)
	router.POST("/functions/:id/integral", handlers.IntegrateFunction)
	router.GET("/functions/:id/roots", handlers.FunctionRoots)
	router.GET("/functions/:id/inflections", handlers.FunctionInflections)

	// Viewport
	router.GET("/viewport", handlers.Viewport)
	router.POST("/viewport/zoom", handlers.ViewportZoom)
	router.POST("/viewport/pan", handlers.ViewportPan)
	router.POST("/viewport/reset", handlers.ViewportReset)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	return &Server{
		router:  router,
		manager: manager,
		metrics: metrics,
		log:     log,
	}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	s.log.Info("starting graphing engine", zap.String("addr", addr))
	s.httpSrv = &nethttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.httpSrv.ListenAndServe()
}

// Close shuts the server down gracefully.
func (s *Server) Close() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}
