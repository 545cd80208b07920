package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/pkg/logger"
	"insu-copy-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("llm")

// 생성 호출 에러
var (
	// ErrNoAPIKey 설정된 키가 하나도 없다. 재시도 불가.
	ErrNoAPIKey = errors.New("no api key configured")
	// ErrAllKeysExhausted 모든 시도를 소진했다. 요청 단위 종료.
	ErrAllKeysExhausted = errors.New("all api keys exhausted")
	// ErrEmptyCandidate 응답에 사용할 후보 텍스트가 없다
	ErrEmptyCandidate = errors.New("no candidate text in response")
)

// Client 키 순환 재시도를 수행하는 생성 API 클라이언트
type Client struct {
	cfg  *config.LLMConfig
	pool *KeyPool
	http *http.Client
}

// NewClient 생성 API 클라이언트를 만든다
func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:  &cfg.LLM,
		pool: NewKeyPool(cfg.LLM.APIKeys),
		http: &http.Client{Timeout: cfg.LLM.Timeout},
	}
}

// Pool 키 풀을 반환한다
func (c *Client) Pool() *KeyPool {
	return c.pool
}

// DefaultOptions 설정 기반 생성 파라미터 기본값
func (c *Client) DefaultOptions() Options {
	return Options{
		Temperature:     c.cfg.Temperature,
		TopK:            c.cfg.TopK,
		TopP:            c.cfg.TopP,
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	}
}

// maxAttempts 시도 횟수 상한
func (c *Client) maxAttempts() int {
	if c.cfg.MaxAttempts > 0 {
		return c.cfg.MaxAttempts
	}
	return 3
}

// Generate 지시문을 보내 생성 텍스트를 받는다.
// 실패한 키는 풀에 표시하고 다른 키로 최대 시도 횟수까지 재시도한다.
// 시도 간 부분 응답 재사용은 없다.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.Generate")
	defer span.End()

	for attempt := 1; attempt <= c.maxAttempts(); attempt++ {
		key, ok := c.pool.Next()
		if !ok {
			return "", ErrNoAPIKey
		}

		text, err := c.generateOnce(ctx, key, prompt, opts)
		if err == nil {
			return text, nil
		}

		c.pool.MarkFailed(key)
		logger.Warn(ctx, "llm call failed, rotating key",
			"attempt", attempt,
			"key_index", key.Index,
			"error", err.Error(),
		)
	}

	return "", ErrAllKeysExhausted
}

// generateOnce 단일 키로 한 번 호출한다
func (c *Client) generateOnce(ctx context.Context, key Key, prompt string, opts Options) (string, error) {
	start := time.Now()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:     opts.Temperature,
			TopK:            opts.TopK,
			TopP:            opts.TopP,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.Model, url.QueryEscape(key.Value))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(start, "transport_error")
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 본문은 읽어서 버리되 에러 메시지에 키가 섞이지 않게 상태 코드만 남긴다
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.observe(start, "http_error")
		return "", fmt.Errorf("generate request returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.observe(start, "decode_error")
		return "", fmt.Errorf("failed to decode generate response: %w", err)
	}

	text, ok := out.firstText()
	if !ok {
		c.observe(start, "empty")
		return "", ErrEmptyCandidate
	}

	c.observe(start, "ok")
	return text, nil
}

// observe 호출 지표를 기록한다
func (c *Client) observe(start time.Time, status string) {
	metrics.LLMCallTotal.WithLabelValues(c.cfg.Model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
}
