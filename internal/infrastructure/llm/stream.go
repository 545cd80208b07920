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
	"strings"

	"insu-copy-ai-api/pkg/logger"
	"insu-copy-ai-api/pkg/metrics"
)

// EventKind 진행 이벤트 종류
type EventKind string

const (
	EventStatus  EventKind = "status"
	EventContent EventKind = "content"
	EventError   EventKind = "error"
	EventDone    EventKind = "done"
)

// Event 스트리밍 중계가 내보내는 정규화된 진행 이벤트.
// 한 요청의 이벤트 열에서 Percent 는 감소하지 않으며,
// done 또는 error 정확히 하나로 열이 끝난다.
type Event struct {
	Kind    EventKind `json:"kind"`
	Step    int       `json:"step,omitempty"`
	Percent int       `json:"percent,omitempty"`
	Message string    `json:"message,omitempty"`
	Payload string    `json:"payload,omitempty"`
	Index   int       `json:"index,omitempty"`
}

// dataPrefix 업스트림 이벤트 스트림의 페이로드 라인 접두사
const dataPrefix = "data: "

// preludeStatuses 업스트림 연결 전에 내보내는 합성 상태 이벤트.
// 연결 수립이 느릴 때도 호출자가 초기 피드백을 받을 수 있게 한다.
var preludeStatuses = []Event{
	{Kind: EventStatus, Step: 1, Percent: 5, Message: "요청 분석 중"},
	{Kind: EventStatus, Step: 2, Percent: 15, Message: "지시문 구성 완료"},
	{Kind: EventStatus, Step: 3, Percent: 30, Message: "생성 서비스 연결 중"},
}

// GenerateStream 스트리밍 모드로 생성을 수행하고 진행 이벤트 채널을 돌려준다.
// 모든 실패는 단일 error 이벤트로 전달되고, 채널은 종단 이벤트 후 닫힌다.
func (c *Client) GenerateStream(ctx context.Context, prompt string, opts Options) <-chan Event {
	events := make(chan Event, 8)

	go func() {
		defer close(events)
		c.relay(ctx, prompt, opts, events)
	}()

	return events
}

// relay 업스트림 청크 스트림을 진행 이벤트로 중계한다.
// 단일 고루틴에서만 실행되며 출력 순서는 업스트림 도착 순서와 같다.
func (c *Client) relay(ctx context.Context, prompt string, opts Options, events chan<- Event) {
	for _, ev := range preludeStatuses {
		if !send(ctx, events, ev) {
			return
		}
	}

	resp, err := c.openStream(ctx, prompt, opts)
	if err != nil {
		send(ctx, events, Event{Kind: EventError, Message: publicErrorMessage(err)})
		return
	}
	defer resp.Body.Close()

	if !send(ctx, events, Event{Kind: EventStatus, Step: 4, Percent: 45, Message: "콘텐츠 생성 중"}) {
		return
	}

	// 라인 버퍼 상태 기계: 청크를 누적하고 완성된 라인만 처리하며
	// 꼬리의 미완성 라인은 다음 청크까지 보존한다.
	var pending []byte
	var full strings.Builder
	buf := make([]byte, 4096)
	index := 0

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			for {
				nl := bytes.IndexByte(pending, '\n')
				if nl < 0 {
					break
				}
				line := pending[:nl]
				pending = pending[nl+1:]
				if delta, ok := parseStreamLine(line); ok {
					full.WriteString(delta)
					if !send(ctx, events, Event{Kind: EventContent, Payload: delta, Index: index}) {
						return
					}
					index++
				}
			}
		}

		if readErr == io.EOF {
			// 마지막 청크가 개행 없이 끝났을 수 있다
			if delta, ok := parseStreamLine(pending); ok {
				full.WriteString(delta)
				if !send(ctx, events, Event{Kind: EventContent, Payload: delta, Index: index}) {
					return
				}
			}
			if !send(ctx, events, Event{Kind: EventStatus, Step: 5, Percent: 100, Message: "생성 완료"}) {
				return
			}
			send(ctx, events, Event{Kind: EventDone, Payload: full.String()})
			return
		}
		if readErr != nil {
			logger.Error(ctx, "stream read failed", readErr)
			send(ctx, events, Event{Kind: EventError, Message: "콘텐츠 생성 중 오류가 발생했습니다"})
			return
		}
	}
}

// openStream 키를 바꿔가며 스트리밍 연결을 연다
func (c *Client) openStream(ctx context.Context, prompt string, opts Options) (*http.Response, error) {
	for attempt := 1; attempt <= c.maxAttempts(); attempt++ {
		key, ok := c.pool.Next()
		if !ok {
			return nil, ErrNoAPIKey
		}

		resp, err := c.openStreamOnce(ctx, key, prompt, opts)
		if err == nil {
			return resp, nil
		}

		c.pool.MarkFailed(key)
		logger.Warn(ctx, "stream open failed, rotating key",
			"attempt", attempt,
			"key_index", key.Index,
			"error", err.Error(),
		)
	}
	return nil, ErrAllKeysExhausted
}

// openStreamOnce 단일 키로 스트리밍 연결을 시도한다
func (c *Client) openStreamOnce(ctx context.Context, key Key, prompt string, opts Options) (*http.Response, error) {
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
		return nil, fmt.Errorf("failed to marshal stream request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s",
		c.cfg.BaseURL, c.cfg.Model, url.QueryEscape(key.Value))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build stream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	// 스트리밍에는 전체 타임아웃을 걸지 않는다. 연결 수명은 ctx 가 관리한다.
	streamHTTP := &http.Client{Transport: c.http.Transport}
	resp, err := streamHTTP.Do(req)
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(c.cfg.Model, "transport_error").Inc()
		return nil, fmt.Errorf("stream request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		metrics.LLMCallTotal.WithLabelValues(c.cfg.Model, "http_error").Inc()
		return nil, fmt.Errorf("stream request returned status %d", resp.StatusCode)
	}

	metrics.LLMCallTotal.WithLabelValues(c.cfg.Model, "stream_open").Inc()
	return resp, nil
}

// parseStreamLine 이벤트 스트림 라인 하나에서 텍스트 델타를 꺼낸다.
// 페이로드 형식이 아닌 라인(keep-alive, 말줄임 등)은 조용히 건너뛴다.
func parseStreamLine(line []byte) (string, bool) {
	trimmed := strings.TrimRight(string(line), "\r")
	if !strings.HasPrefix(trimmed, dataPrefix) {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(trimmed, dataPrefix))
	if payload == "" || payload == "[DONE]" {
		return "", false
	}

	var chunk generateResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// 손상된 조각은 치명적이지 않다
		return "", false
	}
	text, ok := chunk.firstText()
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

// send 이벤트를 전달한다. ctx 가 끝나면 중계를 멈춘다.
func send(ctx context.Context, events chan<- Event, ev Event) bool {
	metrics.StreamEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// publicErrorMessage 내부 에러를 사용자 노출용 메시지로 바꾼다.
// 키 값 등 내부 정보는 절대 포함하지 않는다.
func publicErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoAPIKey), errors.Is(err, ErrAllKeysExhausted):
		return "콘텐츠 생성 서비스를 일시적으로 사용할 수 없습니다"
	default:
		return "콘텐츠 생성 중 오류가 발생했습니다"
	}
}
