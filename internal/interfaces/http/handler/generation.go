// Package handler HTTP 요청 처리기
package handler

import (
	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/internal/application/generation"
	"insu-copy-ai-api/internal/domain/persona"
	"insu-copy-ai-api/internal/interfaces/http/dto"
	"insu-copy-ai-api/pkg/logger"
)

// GenerationHandler 콘텐츠 생성 처리기
type GenerationHandler struct {
	svc *generation.Service
}

// NewGenerationHandler 생성 처리기를 만든다
func NewGenerationHandler(svc *generation.Service) *GenerationHandler {
	return &GenerationHandler{svc: svc}
}

// GenerateQnA Q&A 생성 엔드포인트
// @Summary Q&A 세트 생성
// @Description 페르소나에 맞춘 질문/답변/댓글 세트를 생성한다
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "생성 요청"
// @Success 200 {object} dto.Response[generation.QnAResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate/qna [post]
func (h *GenerationHandler) GenerateQnA(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.GenerateQnA(c.Request.Context(), req.Target, req.Category, req.Concern)
	if err != nil {
		logger.Error(c.Request.Context(), "qna generation failed", err, "category", req.Category)
		dto.FromError(c, err)
		return
	}

	dto.Success(c, result)
}

// GenerateBlog 블로그 생성 엔드포인트
// @Summary 블로그 포스트 생성
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "생성 요청"
// @Success 200 {object} dto.Response[generation.BlogResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate/blog [post]
func (h *GenerationHandler) GenerateBlog(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.GenerateBlog(c.Request.Context(), req.Target, req.Category, req.Concern)
	if err != nil {
		logger.Error(c.Request.Context(), "blog generation failed", err, "category", req.Category)
		dto.FromError(c, err)
		return
	}

	dto.Success(c, result)
}

// GenerateProposal 보장 제안서 생성 엔드포인트
// @Summary 보장 제안서 생성
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.ProposalRequest true "생성 요청"
// @Success 200 {object} dto.Response[generation.ProposalResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate/proposal [post]
func (h *GenerationHandler) GenerateProposal(c *gin.Context) {
	var req dto.ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.GenerateProposal(c.Request.Context(), req.Target, req.Category, req.Concern, persona.Override{
		AgeYears: req.CustomerAge,
		Gender:   req.CustomerGender,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "proposal generation failed", err, "category", req.Category)
		dto.FromError(c, err)
		return
	}

	dto.Success(c, result)
}
