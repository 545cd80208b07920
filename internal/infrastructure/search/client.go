// Package search 연관 키워드 검색 연동을 제공한다.
// 검색 실패는 생성 흐름을 막지 않는다 (fail-open).
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/pkg/logger"
	"insu-copy-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("search")

// Cache 검색 결과 캐시 인터페이스.
// GetOrLoad 는 동일 키 동시 조회를 하나의 적재로 합친다.
type Cache interface {
	GetString(ctx context.Context, key string) (string, bool)
	GetOrLoad(ctx context.Context, key string, loader func() (string, error)) (string, error)
}

// Client 검색 API 클라이언트
type Client struct {
	cfg   *config.SearchConfig
	http  *http.Client
	cache Cache
}

// NewClient 검색 클라이언트를 만든다. cache 는 nil 일 수 있다.
func NewClient(cfg *config.Config, cache Cache) *Client {
	return &Client{
		cfg:   &cfg.Search,
		http:  &http.Client{Timeout: cfg.Search.Timeout},
		cache: cache,
	}
}

// searchResponse 검색 API 응답 본문
type searchResponse struct {
	Items []searchItem `json:"items"`
}

// searchItem 검색 결과 항목
type searchItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// tagPattern 검색 결과에 섞여 오는 강조 태그
var tagPattern = regexp.MustCompile(`</?b>|&quot;|&amp;|&lt;|&gt;`)

// RelatedKeywords 질의에 대한 연관 키워드 목록을 돌려준다.
// 비활성화 상태거나 호출이 실패하면 빈 목록을 돌려주며 에러를 내지 않는다.
func (c *Client) RelatedKeywords(ctx context.Context, query string) []string {
	if c == nil || !c.cfg.Enabled || strings.TrimSpace(query) == "" {
		return nil
	}

	ctx, span := tracer.Start(ctx, "search.RelatedKeywords")
	defer span.End()

	cacheKey := "search:kw:" + query
	if c.cache != nil {
		if cached, ok := c.cache.GetString(ctx, cacheKey); ok {
			var keywords []string
			if err := json.Unmarshal([]byte(cached), &keywords); err == nil {
				metrics.SearchLookupTotal.WithLabelValues("cache_hit").Inc()
				return keywords
			}
		}

		// Read-Through 적재. 동일 질의 동시 미스는 한 번만 조회된다.
		encoded, err := c.cache.GetOrLoad(ctx, cacheKey, func() (string, error) {
			keywords, err := c.lookup(ctx, query)
			if err != nil {
				return "", err
			}
			raw, err := json.Marshal(keywords)
			if err != nil {
				return "", err
			}
			return string(raw), nil
		})
		if err != nil {
			logger.Warn(ctx, "keyword lookup failed, continuing without enrichment",
				"error", err.Error())
			metrics.SearchLookupTotal.WithLabelValues("error").Inc()
			return nil
		}
		metrics.SearchLookupTotal.WithLabelValues("ok").Inc()

		var keywords []string
		if err := json.Unmarshal([]byte(encoded), &keywords); err != nil {
			return nil
		}
		return keywords
	}

	keywords, err := c.lookup(ctx, query)
	if err != nil {
		logger.Warn(ctx, "keyword lookup failed, continuing without enrichment",
			"error", err.Error())
		metrics.SearchLookupTotal.WithLabelValues("error").Inc()
		return nil
	}
	metrics.SearchLookupTotal.WithLabelValues("ok").Inc()
	return keywords
}

// lookup 검색 API 를 호출해 결과 제목을 키워드로 정리한다
func (c *Client) lookup(ctx context.Context, query string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/kin.json?query=%s&display=%d",
		c.cfg.BaseURL, url.QueryEscape(query), c.maxKeywords())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.cfg.ClientID)
	req.Header.Set("X-Naver-Client-Secret", c.cfg.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search request returned status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	keywords := make([]string, 0, len(out.Items))
	for _, item := range out.Items {
		title := strings.TrimSpace(tagPattern.ReplaceAllString(item.Title, ""))
		if title == "" {
			continue
		}
		keywords = append(keywords, title)
		if len(keywords) >= c.maxKeywords() {
			break
		}
	}
	return keywords, nil
}

// maxKeywords 키워드 개수 상한
func (c *Client) maxKeywords() int {
	if c.cfg.MaxKeywords > 0 {
		return c.cfg.MaxKeywords
	}
	return 5
}
