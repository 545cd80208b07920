// Package redis Redis 캐시 구현을 제공한다
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var cacheTracer = otel.Tracer("redis.cache")

// KeywordCache 검색 키워드 조회 결과의 단기 캐시.
// 생성 결과물은 절대 저장하지 않는다. 외부 검색 조회만 캐시 대상이다.
type KeywordCache struct {
	client *Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewKeywordCache 키워드 캐시를 만든다
func NewKeywordCache(client *Client, ttl time.Duration) *KeywordCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &KeywordCache{
		client: client,
		ttl:    ttl,
	}
}

// GetString 캐시 값을 읽는다. 미스나 장애는 (``, false) 로 처리한다.
func (c *KeywordCache) GetString(ctx context.Context, key string) (string, bool) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetString",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return "", false
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	return val, true
}

// SetString 캐시 값을 기록한다. 실패해도 호출자에게 영향을 주지 않는다.
func (c *KeywordCache) SetString(ctx context.Context, key, value string) {
	ctx, span := cacheTracer.Start(ctx, "cache.SetString",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_ms", c.ttl.Milliseconds()),
		))
	defer span.End()

	if err := c.client.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		span.RecordError(err)
	}
}

// GetOrLoad Read-Through 캐시. 동일 키 동시 조회는 singleflight 로 합친다.
func (c *KeywordCache) GetOrLoad(ctx context.Context, key string, loader func() (string, error)) (string, error) {
	if val, ok := c.GetString(ctx, key); ok {
		return val, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		if val, ok := c.GetString(ctx, key); ok {
			return val, nil
		}
		val, err := loader()
		if err != nil {
			return "", err
		}
		c.SetString(ctx, key, val)
		return val, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
