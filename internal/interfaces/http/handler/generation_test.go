package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insu-copy-ai-api/internal/application/generation"
	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/infrastructure/llm"
	"insu-copy-ai-api/internal/interfaces/http/handler"
	"insu-copy-ai-api/internal/interfaces/http/router"
)

// newUpstream 고정 텍스트를 돌려주는 가짜 생성 API 서버
func newUpstream(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestRouter(t *testing.T, upstreamURL string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "insu-copy-ai-api", Version: "test", Env: "test"},
		LLM: config.LLMConfig{
			BaseURL:     upstreamURL,
			Model:       "test-model",
			APIKeys:     []string{"test-key"},
			MaxAttempts: 3,
			Timeout:     5 * time.Second,
		},
		Generation: config.GenerationConfig{
			CommentCount:      3,
			HighlightCount:    3,
			ProposalItemLimit: 8,
		},
	}

	client := llm.NewClient(cfg)
	svc := generation.NewService(cfg, client, nil)

	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(cfg, client.Pool(), nil),
		Generation: handler.NewGenerationHandler(svc),
		Stream:     handler.NewStreamHandler(svc),
		Analysis:   handler.NewAnalysisHandler(svc),
	}
	return router.New(cfg, handlers, nil).Engine()
}

const upstreamQnA = `[질문1]
30대 워킹맘인데 **종신보험**이 꼭 필요할까요? 😊

[답변1]
## 답변
자녀가 있다면 사망 보장의 우선순위를 먼저 점검해 보시길 권합니다.

[댓글1]
저도 같은 고민 했어요

[댓글2]
좋은 답변이네요

[댓글3]
도움이 됐습니다

[핵심요약]
사망 보장 우선순위 점검
`

func TestGenerateQnAEndpoint(t *testing.T) {
	upstream := newUpstream(t, upstreamQnA)
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	body := `{"target":"30대 워킹맘","concern":"종신보험이 필요할까요"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/qna", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int                  `json:"code"`
		Data generation.QnAResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Data.Question)
	assert.NotEmpty(t, resp.Data.Answer)
	assert.Len(t, resp.Data.Comments, 3)

	// 정제 결과에는 마크다운 표식과 이모지가 남지 않는다
	joined := resp.Data.Question + resp.Data.Answer + strings.Join(resp.Data.Comments, "")
	assert.NotContains(t, joined, "**")
	assert.NotContains(t, joined, "#")
	assert.NotContains(t, joined, "😊")
}

func TestGenerateQnAEndpointRejectsMissingConcern(t *testing.T) {
	upstream := newUpstream(t, upstreamQnA)
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/qna", strings.NewReader(`{"target":"30대"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateQnAEndpointUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/qna", strings.NewReader(`{"concern":"보험 고민"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// 키 값 등 내부 정보가 응답에 노출되면 안 된다
	assert.NotContains(t, w.Body.String(), "test-key")
}

func TestGenerateProposalEndpoint(t *testing.T) {
	upstream := newUpstream(t, "[상품명]\n가족사랑 플랜\n[항목]\n일반사망|1억원|45,000원|O\n암진단|3천만원|22,000원|X\n[합계]\n67,000원")
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/proposal", strings.NewReader(`{"target":"40대 가장"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data generation.ProposalResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "가족사랑 플랜", resp.Data.Product)
	require.Len(t, resp.Data.Items, 2)
	assert.Equal(t, 45000, resp.Data.Items[0].Premium)
	assert.Equal(t, 67000, resp.Data.Total)
}

func TestGenerateProposalEndpointCustomerOverride(t *testing.T) {
	var upstreamBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		upstreamBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "[상품명]플랜\n[항목]\n일반사망|1억원|30000|O"}}}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	body := `{"target":"30대 가장","customerAge":62,"customerGender":"여성"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate/proposal", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// 지시문의 작성자 설정은 타깃 문구가 아니라 호출자 지정값을 따른다
	assert.Contains(t, upstreamBody, "60대")
	assert.NotContains(t, upstreamBody, "30대")
	assert.Contains(t, upstreamBody, "여성")
}

func TestHealthEndpoint(t *testing.T) {
	upstream := newUpstream(t, "")
	defer upstream.Close()
	engine := newTestRouter(t, upstream.URL)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.Contains(t, resp.Features, "qna")
	assert.Contains(t, resp.Features, "analysis")
}

func TestReadyEndpointWithoutKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		LLM: config.LLMConfig{APIKeys: nil},
	}
	client := llm.NewClient(cfg)
	svc := generation.NewService(cfg, client, nil)

	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(cfg, client.Pool(), nil),
		Generation: handler.NewGenerationHandler(svc),
		Stream:     handler.NewStreamHandler(svc),
		Analysis:   handler.NewAnalysisHandler(svc),
	}
	engine := router.New(cfg, handlers, nil).Engine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
