// Package wire 의존성 조립
package wire

import (
	"context"

	"insu-copy-ai-api/internal/application/generation"
	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/infrastructure/llm"
	"insu-copy-ai-api/internal/infrastructure/persistence/redis"
	"insu-copy-ai-api/internal/infrastructure/search"
	"insu-copy-ai-api/internal/interfaces/http/handler"
	"insu-copy-ai-api/internal/interfaces/http/middleware"
	"insu-copy-ai-api/internal/interfaces/http/router"
	"insu-copy-ai-api/pkg/logger"
)

// App 조립된 애플리케이션
type App struct {
	router *router.Router
	redis  *redis.Client
}

// Engine HTTP 엔진을 반환한다
func (a *App) Engine() *router.Router {
	return a.router
}

// InitializeApp 전체 의존성을 조립한다.
// 반환된 cleanup 은 종료 시 반드시 호출한다.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	// Redis 는 선택 의존성이다. 꺼져 있거나 연결 실패 시
	// 요청 제한과 검색 캐시 없이 기동한다.
	var redisClient *redis.Client
	if cfg.Cache.Redis.Enabled {
		client, err := redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, rate limit and search cache disabled", "error", err.Error())
		} else {
			redisClient = client
		}
	}

	// LLM 클라이언트와 생성 서비스
	llmClient := llm.NewClient(cfg)

	var keywordCache search.Cache
	var limiter middleware.RateLimiter
	if redisClient != nil {
		keywordCache = redis.NewKeywordCache(redisClient, cfg.Search.CacheTTL)
		limiter = redis.NewRateLimiter(redisClient)
	}

	var keywords generation.KeywordProvider
	if cfg.Search.Enabled {
		keywords = search.NewClient(cfg, keywordCache)
	}

	svc := generation.NewService(cfg, llmClient, keywords)

	// HTTP 계층
	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(cfg, llmClient.Pool(), redisClient),
		Generation: handler.NewGenerationHandler(svc),
		Stream:     handler.NewStreamHandler(svc),
		Analysis:   handler.NewAnalysisHandler(svc),
	}

	app := &App{
		router: router.New(cfg, handlers, limiter),
		redis:  redisClient,
	}

	cleanup := func() {
		if app.redis != nil {
			if err := app.redis.Close(); err != nil {
				logger.Warn(ctx, "failed to close redis client", "error", err.Error())
			}
		}
	}

	return app, cleanup, nil
}
