// Package dto HTTP 계층 데이터 전송 객체
package dto

// GenerateRequest 콘텐츠 생성 공통 요청.
// target 은 "30대 워킹맘" 같은 자유 서술형 페르소나 설명이다.
type GenerateRequest struct {
	Target   string `json:"target"`
	Category string `json:"category"`
	Concern  string `json:"concern" binding:"required"`
}

// ProposalRequest 보장 제안서 요청. 고민 서술 없이도 만들 수 있다.
// customerAge/customerGender 를 주면 타깃 문구 추론보다 우선한다.
type ProposalRequest struct {
	Target         string `json:"target"`
	Category       string `json:"category"`
	Concern        string `json:"concern"`
	CustomerAge    int    `json:"customerAge"`
	CustomerGender string `json:"customerGender"`
}

// AnalyzeRequest 콘텐츠 분석 요청
type AnalyzeRequest struct {
	Content string `json:"content" binding:"required"`
	Keyword string `json:"keyword"`
	Region  string `json:"region"`
}
