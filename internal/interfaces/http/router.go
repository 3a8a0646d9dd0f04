// Package http wires the Sentinel REST API onto gin.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/sentinel/internal/application/dto"
	"github.com/turtacn/sentinel/internal/config"
	"github.com/turtacn/sentinel/internal/domain/service"
	"github.com/turtacn/sentinel/internal/infrastructure/monitoring"
	"github.com/turtacn/sentinel/internal/interfaces/http/handlers"
	"github.com/turtacn/sentinel/internal/interfaces/http/middleware"
	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
	"github.com/turtacn/sentinel/pkg/logger"
)

// Dependencies 路由器依赖
type Dependencies struct {
	Tracing         *monitoring.TracingManager
	Metrics         service.Metrics
	Gatherer        prometheus.Gatherer
	RateLimiter     service.RateLimitService // nil 表示不限流
	HealthHandler   *handlers.HealthHandler
	IncidentHandler *handlers.IncidentHandler
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	config *config.Config
	logger logger.Logger
	deps   Dependencies
	server *http.Server
}

// NewRouter 创建路由器并注册全部路由
func NewRouter(cfg *config.Config, log logger.Logger, deps Dependencies) *Router {
	// 设置 Gin 模式
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Tracing == nil {
		deps.Tracing = monitoring.NewNoopTracingManager()
	}
	if deps.Metrics == nil {
		deps.Metrics = service.NoopMetrics{}
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	r := &Router{
		engine: gin.New(),
		config: cfg,
		logger: log,
		deps:   deps,
	}
	r.setupRoutes()
	r.server = &http.Server{
		Addr:           cfg.Server.Addr(),
		Handler:        r.engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return r
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 全局中间件
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Observability(r.deps.Tracing, r.deps.Metrics))
	r.engine.Use(middleware.Logging(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	// CORS 配置
	corsConfig := cors.Config{
		AllowOrigins:  r.config.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "If-None-Match", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID, constants.HeaderRateLimitLimit, constants.HeaderRateLimitRemaining, constants.HeaderRetryAfter, "ETag"},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 || (len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	r.engine.Use(cors.New(corsConfig))

	// 健康检查路由
	r.engine.GET("/health", r.deps.HealthHandler.HealthCheck)
	r.engine.GET("/ready", r.deps.HealthHandler.ReadinessCheck)
	r.engine.GET("/live", r.deps.HealthHandler.LivenessCheck)

	// Prometheus metrics
	r.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.deps.Gatherer, promhttp.HandlerOpts{})))

	// Pprof 性能分析（仅在非生产环境）
	if !r.config.Server.IsProduction() {
		pprof.Register(r.engine)
	}

	h := r.deps.IncidentHandler

	// API 路由组
	v1 := r.engine.Group("/api/v1")
	v1.Use(middleware.RateLimit(r.deps.RateLimiter, &r.config.RateLimit, r.deps.Metrics, r.logger))
	{
		feed := v1.Group("")
		feed.Use(middleware.ETagCache())
		{
			feed.GET("/incidents", h.ListIncidents)
			feed.GET("/incidents/:id", h.GetIncident)
			feed.GET("/dashboard", h.Dashboard)
			feed.GET("/regions", h.Regions)
		}

		v1.POST("/incidents/:id/analysis", h.AnalyzeIncident)
		v1.POST("/incidents/analysis", h.AnalyzeIncidents)
		v1.POST("/analysis", h.AnalyzeSubmitted)
		v1.POST("/briefings", h.Brief)
	}

	// 404 处理
	r.engine.NoRoute(func(c *gin.Context) {
		dto.SendError(c, errors.NewError(errors.CodeNotFound, http.StatusNotFound,
			"The requested resource was not found", "route not found: "+c.Request.URL.Path))
	})
}

// Start 启动 HTTP 服务器，阻塞直到服务器关闭
func (r *Router) Start() error {
	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", r.server.Addr))

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 优雅关闭 HTTP 服务器
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info(ctx, "Stopping HTTP server...")
	if err := r.server.Shutdown(ctx); err != nil {
		r.logger.Error(ctx, "Server forced to shutdown", err)
		return err
	}
	r.logger.Info(ctx, "HTTP server stopped")
	return nil
}

// Engine 返回底层 gin 引擎，供测试使用
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
