package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseRecorder gin 의 c.Stream 이 요구하는 http.CloseNotifier 를 지원하는 레코더
type sseRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *sseRecorder) CloseNotify() <-chan bool { return r.closed }

// newStreamUpstream SSE 로 텍스트 조각을 흘려보내는 가짜 생성 API 서버
func newStreamUpstream(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range chunks {
			payload, err := json.Marshal(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": chunk}}}},
				},
			})
			require.NoError(t, err)
			fmt.Fprintf(w, "data: %s\n\n", payload)
		}
	}))
}

func TestGenerateQnAStreamEndpoint(t *testing.T) {
	upstream := newStreamUpstream(t, []string{
		"[질문1]\n종신보험이 ",
		"필요할까요?\n[답변1]\n보장 우선순위를 점검해 보세요.\n[댓글1]\n공감합니다\n[핵심요약]\n우선순위 점검",
	})
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	body := `{"target":"30대 워킹맘","concern":"종신보험이 필요할까요"}`
	w := newSSERecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/qna/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	out := w.Body.String()
	assert.Contains(t, out, "event:status")
	assert.Contains(t, out, "event:content")
	assert.Contains(t, out, "event:done")
	// done 이벤트 하나로 끝난다
	assert.Equal(t, 1, strings.Count(out, "event:done"))
	assert.NotContains(t, out, "event:error")
}

func TestGenerateQnAStreamEndpointUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	w := newSSERecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/qna/stream", strings.NewReader(`{"concern":"보험 고민"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	out := w.Body.String()
	assert.Contains(t, out, "event:error")
	assert.NotContains(t, out, "event:done")
	// 키 값이 스트림으로 새면 안 된다
	assert.NotContains(t, out, "test-key")
}

func TestGenerateQnAStreamEndpointRejectsBadBody(t *testing.T) {
	upstream := newStreamUpstream(t, nil)
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/qna/stream", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
