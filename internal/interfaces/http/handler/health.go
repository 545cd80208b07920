// Package handler HTTP 요청 처리기
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/infrastructure/llm"
	"insu-copy-ai-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 상태 점검 처리기
type HealthHandler struct {
	cfg   *config.Config
	pool  *llm.KeyPool
	redis *redis.Client
}

// NewHealthHandler 상태 점검 처리기를 만든다. redisClient 는 nil 일 수 있다.
func NewHealthHandler(cfg *config.Config, pool *llm.KeyPool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		cfg:   cfg,
		pool:  pool,
		redis: redisClient,
	}
}

// HealthResponse 상태 점검 응답
type HealthResponse struct {
	Status   string   `json:"status"`
	Version  string   `json:"version,omitempty"`
	Features []string `json:"features,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// features 현재 설정에서 제공 가능한 기능 목록
func (h *HealthHandler) features() []string {
	out := []string{"qna", "qna_stream", "blog", "proposal", "analysis"}
	if h.cfg.Search.Enabled {
		out = append(out, "search_keywords")
	}
	return out
}

// Health 상태 점검 엔드포인트
// @Summary 상태 점검
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  h.cfg.App.Version,
		Features: h.features(),
	})
}

// Ready 준비 점검 엔드포인트
// @Summary 준비 점검
// @Description 트래픽을 받을 수 있는 상태인지 확인한다
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"llm_keys": {Status: "unknown"},
	}
	ready := true

	// API 키 풀 (필수)
	if h.pool == nil || h.pool.Size() == 0 {
		checks["llm_keys"].Status = "missing"
		checks["llm_keys"].Error = "no api keys configured"
		ready = false
	} else {
		checks["llm_keys"].Status = "ok"
	}

	// Redis (선택, 준비 상태에는 영향 없음)
	if h.redis != nil {
		checks["redis"] = &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 생존 점검 엔드포인트
// @Summary 생존 점검
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
