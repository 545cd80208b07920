package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamChunkLine 업스트림 스트리밍 형식의 페이로드 라인
func streamChunkLine(text string) string {
	return fmt.Sprintf(`data: {"candidates":[{"content":{"parts":[{"text":%q}]}}]}`+"\n", text)
}

// collect 채널이 닫힐 때까지 모든 이벤트를 모은다
func collect(events <-chan Event) []Event {
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

// eventsOfKind 특정 종류의 이벤트만 고른다
func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func TestStreamRelayBuffersPartialLines(t *testing.T) {
	line1 := streamChunkLine("첫 번째")
	line2 := streamChunkLine("두 번째")
	line3 := streamChunkLine("세 번째")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")

		// 세 청크, 두 번째 청크는 라인 중간에서 끊긴다
		fmt.Fprint(w, line1)
		flusher.Flush()
		fmt.Fprint(w, line2[:10])
		flusher.Flush()
		fmt.Fprint(w, line2[10:]+line3)
		flusher.Flush()
	}))
	defer srv.Close()

	client := NewClient(newTestConfig(srv.URL, []string{"k1"}))
	events := collect(client.GenerateStream(context.Background(), "지시문", client.DefaultOptions()))

	contents := eventsOfKind(events, EventContent)
	require.Len(t, contents, 3)
	// 어떤 라인도 중복 처리되거나 유실되지 않는다
	assert.Equal(t, "첫 번째", contents[0].Payload)
	assert.Equal(t, "두 번째", contents[1].Payload)
	assert.Equal(t, "세 번째", contents[2].Payload)
	assert.Equal(t, []int{0, 1, 2}, []int{contents[0].Index, contents[1].Index, contents[2].Index})
}

func TestStreamRelayTerminatesWithSingleDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, streamChunkLine("전부"))
	}))
	defer srv.Close()

	client := NewClient(newTestConfig(srv.URL, []string{"k1"}))
	events := collect(client.GenerateStream(context.Background(), "지시문", client.DefaultOptions()))

	require.NotEmpty(t, events)
	dones := eventsOfKind(events, EventDone)
	errtail := eventsOfKind(events, EventError)
	require.Len(t, dones, 1)
	assert.Empty(t, errtail)

	// done 이벤트는 누적 전문을 담고 마지막에 온다
	assert.Equal(t, "전부", dones[0].Payload)
	assert.Equal(t, EventDone, events[len(events)-1].Kind)
}

func TestStreamRelayPercentMonotonic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, streamChunkLine("본문"))
	}))
	defer srv.Close()

	client := NewClient(newTestConfig(srv.URL, []string{"k1"}))
	events := collect(client.GenerateStream(context.Background(), "지시문", client.DefaultOptions()))

	last := 0
	for _, ev := range eventsOfKind(events, EventStatus) {
		assert.GreaterOrEqual(t, ev.Percent, last)
		last = ev.Percent
	}
	assert.Equal(t, 100, last)
}

func TestStreamRelaySkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ": keep-alive\n")
		fmt.Fprint(w, "data: {broken json\n")
		fmt.Fprint(w, streamChunkLine("정상"))
		fmt.Fprint(w, "data: [DONE]\n")
	}))
	defer srv.Close()

	client := NewClient(newTestConfig(srv.URL, []string{"k1"}))
	events := collect(client.GenerateStream(context.Background(), "지시문", client.DefaultOptions()))

	contents := eventsOfKind(events, EventContent)
	require.Len(t, contents, 1)
	assert.Equal(t, "정상", contents[0].Payload)
	require.Len(t, eventsOfKind(events, EventDone), 1)
}

func TestStreamRelayErrorWhenKeysExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(newTestConfig(srv.URL, []string{"k1", "k2", "k3"}))
	events := collect(client.GenerateStream(context.Background(), "지시문", client.DefaultOptions()))

	errs := eventsOfKind(events, EventError)
	require.Len(t, errs, 1)
	assert.Empty(t, eventsOfKind(events, EventDone))
	// error 이벤트가 스트림의 마지막 이벤트다
	assert.Equal(t, EventError, events[len(events)-1].Kind)
	// 내부 정보(키 값)는 메시지에 노출되지 않는다
	assert.NotContains(t, errs[0].Message, "k1")
}

func TestStreamRelayRotatesKeysOnConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "good" {
			fmt.Fprint(w, streamChunkLine("복구"))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(newTestConfig(srv.URL, []string{"bad", "good"}))
	events := collect(client.GenerateStream(context.Background(), "지시문", client.DefaultOptions()))

	contents := eventsOfKind(events, EventContent)
	require.Len(t, contents, 1)
	assert.Equal(t, "복구", contents[0].Payload)
	assert.Equal(t, 1, client.Pool().FailedCount())
}
