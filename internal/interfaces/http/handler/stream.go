// Package handler HTTP 요청 처리기
package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/internal/application/generation"
	"insu-copy-ai-api/internal/infrastructure/llm"
	"insu-copy-ai-api/internal/interfaces/http/dto"
)

// StreamHandler SSE 스트리밍 생성 처리기
type StreamHandler struct {
	svc *generation.Service
}

// NewStreamHandler 스트리밍 처리기를 만든다
func NewStreamHandler(svc *generation.Service) *StreamHandler {
	return &StreamHandler{svc: svc}
}

// GenerateQnAStream Q&A 스트리밍 생성 엔드포인트
// @Summary Q&A 세트 스트리밍 생성
// @Description 진행 상태와 생성 델타를 SSE 로 중계하고, done 이벤트에 최종 구조화 결과를 싣는다
// @Tags Generation
// @Accept json
// @Produce text/event-stream
// @Param request body dto.GenerateRequest true "생성 요청"
// @Success 200 "SSE stream"
// @Failure 400 {object} dto.ErrorResponse
// @Router /generate/qna/stream [post]
func (h *StreamHandler) GenerateQnAStream(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	// SSE 응답 헤더
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	events := h.svc.GenerateQnAStream(c.Request.Context(), req.Target, req.Category, req.Concern)

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			// done/error 는 종단 이벤트라 스트림을 닫는다
			return ev.Kind != llm.EventDone && ev.Kind != llm.EventError

		case <-c.Request.Context().Done():
			// 클라이언트 연결 종료
			return false
		}
	})
}
