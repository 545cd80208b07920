// Package handler HTTP 요청 처리기
package handler

import (
	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/internal/application/generation"
	"insu-copy-ai-api/internal/interfaces/http/dto"
	"insu-copy-ai-api/pkg/logger"
)

// AnalysisHandler 콘텐츠 분석 처리기
type AnalysisHandler struct {
	svc *generation.Service
}

// NewAnalysisHandler 분석 처리기를 만든다
func NewAnalysisHandler(svc *generation.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// AnalyzeContent 콘텐츠 분석 엔드포인트
// @Summary 콘텐츠 품질 분석
// @Description 축별 점수와 종합 분석, 개선문을 함께 반환한다
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "분석 요청"
// @Success 200 {object} dto.Response[generation.AnalysisResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /analyze/content [post]
func (h *AnalysisHandler) AnalyzeContent(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.AnalyzeContent(c.Request.Context(), req.Content, req.Keyword, req.Region)
	if err != nil {
		logger.Error(c.Request.Context(), "content analysis failed", err)
		dto.FromError(c, err)
		return
	}

	dto.Success(c, result)
}
