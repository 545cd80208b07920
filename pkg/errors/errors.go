// Package errors 통일된 에러 정의를 제공한다
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 에러 코드 타입
type ErrorCode string

// 미리 정의된 에러 코드
const (
	// 공통 에러 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 생성 파이프라인 에러 (4xxx)
	CodeGenerationFailed ErrorCode = "4001"
	CodeExtractionFailed ErrorCode = "4002"
	CodeAnalysisFailed   ErrorCode = "4003"

	// 외부 서비스 에러 (5xxx)
	CodeNoAPIKey         ErrorCode = "5001"
	CodeAllKeysExhausted ErrorCode = "5002"
	CodeLLMProviderError ErrorCode = "5003"
	CodeSearchFailed     ErrorCode = "5004"
	CodeCacheError       ErrorCode = "5005"
)

// AppError 애플리케이션 에러
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error error 인터페이스 구현
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 하위 에러를 반환한다
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 상세 정보를 추가한다
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 하위 에러를 추가한다
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 새 애플리케이션 에러를 만든다
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 에러를 감싼다
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 에러 코드를 HTTP 상태 코드로 바꾼다
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		// 키 소진을 포함한 생성 실패는 전부 500 으로 뭉뚱그린다.
		// 키 인덱스 등 내부 정보는 절대 응답에 싣지 않는다.
		return http.StatusInternalServerError
	}
}
