// Package dto HTTP 계층 데이터 전송 객체
package dto

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"insu-copy-ai-api/pkg/errors"
)

// Response 성공 응답 구조
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorDetail 에러 상세
type ErrorDetail struct {
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
}

// ErrorResponse 에러 응답 구조
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Success 성공 응답을 보낸다
func Success[T any](c *gin.Context, data T) {
	c.JSON(200, Response[T]{
		Code:    200,
		Message: "success",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// Error 에러 응답을 보낸다
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// ErrorWithDetail 상세 포함 에러 응답을 보낸다
func ErrorWithDetail(c *gin.Context, httpCode int, message string, detail *ErrorDetail) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	})
}

// BadRequest 400 에러
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// InternalError 500 에러
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}

// FromError AppError 의 코드/상태를 존중해 에러 응답을 보낸다.
// 메시지만 내보내고 내부 원인(Err)은 응답에 싣지 않는다.
func FromError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &ErrorDetail{
			ErrorCode: string(appErr.Code),
		})
		return
	}
	InternalError(c, "generation failed")
}
