// Package llm 업스트림 생성 API 클라이언트를 제공한다
package llm

import (
	"strconv"
	"sync"

	"insu-copy-ai-api/pkg/metrics"
)

// Key 풀에 등록된 API 키. 식별자는 풀 내 인덱스다.
type Key struct {
	Index int
	Value string
}

// KeyPool 고정 크기 키 풀의 순환 선택기.
// 프로세스 전역 공유 상태이므로 모든 접근을 뮤텍스로 보호한다.
type KeyPool struct {
	mu     sync.Mutex
	keys   []string
	cursor int
	failed map[int]struct{}
}

// NewKeyPool 키 풀을 만든다
func NewKeyPool(keys []string) *KeyPool {
	return &KeyPool{
		keys:   keys,
		failed: make(map[int]struct{}),
	}
}

// Size 풀에 등록된 키 개수
func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// Next 다음 사용 가능한 키를 고른다.
// 실패 집합이 풀 전체를 덮으면 전체 초기화 후 선택한다.
// 일시 장애로 모든 키가 영구히 잠기는 일을 막기 위한 동작이다.
// 풀이 비어 있으면 (zero, false) 를 돌려준다.
func (p *KeyPool) Next() (Key, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return Key{}, false
	}

	if len(p.failed) >= len(p.keys) {
		p.failed = make(map[int]struct{})
		metrics.APIKeyPoolResets.Inc()
	}

	for i := 0; i < len(p.keys); i++ {
		idx := (p.cursor + i) % len(p.keys)
		if _, bad := p.failed[idx]; bad {
			continue
		}
		p.cursor = (idx + 1) % len(p.keys)
		return Key{Index: idx, Value: p.keys[idx]}, true
	}

	// 전체 초기화 직후에는 도달하지 않는 경로
	return Key{}, false
}

// MarkFailed 키를 실패로 표시한다. 멱등이며 시간 기반 만료는 없다.
func (p *KeyPool) MarkFailed(k Key) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if k.Index < 0 || k.Index >= len(p.keys) {
		return
	}
	if _, dup := p.failed[k.Index]; !dup {
		p.failed[k.Index] = struct{}{}
		metrics.APIKeyFailures.WithLabelValues(strconv.Itoa(k.Index)).Inc()
	}
}

// FailedCount 현재 실패로 표시된 키 개수
func (p *KeyPool) FailedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failed)
}
