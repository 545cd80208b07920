// Package router HTTP 라우팅 구성
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/interfaces/http/handler"
	"insu-copy-ai-api/internal/interfaces/http/middleware"
)

// Handlers 라우터에 연결할 처리기 묶음
type Handlers struct {
	Health     *handler.HealthHandler
	Generation *handler.GenerationHandler
	Stream     *handler.StreamHandler
	Analysis   *handler.AnalysisHandler
}

// Router HTTP 라우터
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.RateLimiter
}

// New 라우터를 만든다. limiter 는 nil 일 수 있다.
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine Gin Engine 을 반환한다
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 미들웨어를 구성한다
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 라우트를 구성한다
func (r *Router) setupRoutes() {
	// 시스템 엔드포인트
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 생성 엔드포인트는 요청 제한을 건다
	rateLimit := middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter)

	generate := r.engine.Group("/generate", rateLimit)
	{
		generate.POST("/qna", r.handlers.Generation.GenerateQnA)
		generate.POST("/qna/stream", r.handlers.Stream.GenerateQnAStream)
		generate.POST("/blog", r.handlers.Generation.GenerateBlog)
		generate.POST("/proposal", r.handlers.Generation.GenerateProposal)
	}

	analyze := r.engine.Group("/analyze", rateLimit)
	{
		analyze.POST("/content", r.handlers.Analysis.AnalyzeContent)
	}
}
