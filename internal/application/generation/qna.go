package generation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"insu-copy-ai-api/internal/infrastructure/llm"
	"insu-copy-ai-api/pkg/logger"
)

// Q&A 섹션 태그가 없을 때의 대체 문구
const (
	defaultQuestion  = "보험 가입을 고민 중인데 어떤 점을 먼저 확인해야 할까요?"
	defaultAnswer    = "고민하시는 내용을 바탕으로 보장 범위와 보험료 수준을 함께 점검해 보시길 권해 드립니다. 가까운 전문가와 상담해 보시는 것도 좋은 방법입니다."
	defaultComment   = "저도 비슷한 고민을 했었는데 답변이 도움이 되네요."
	defaultHighlight = "보장 내용과 보험료를 함께 비교해 보세요."
)

// QnAResult Q&A 생성 결과
type QnAResult struct {
	Question   string   `json:"question"`
	Answer     string   `json:"answer"`
	Comments   []string `json:"comments"`
	Highlights []string `json:"highlights,omitempty"`
	Category   string   `json:"category"`
}

// qnaSectionSpecs Q&A 결과 추출 명세. 태그는 등장 순서대로 나열한다.
func qnaSectionSpecs() []SectionSpec {
	return []SectionSpec{
		{Label: "질문", Default: defaultQuestion},
		{Label: "답변", Default: defaultAnswer},
		{Label: "댓글", Repeat: true, Default: defaultComment},
		{Label: "핵심요약", Default: defaultHighlight},
	}
}

// GenerateQnA 질문/답변/댓글 세트를 생성한다
func (s *Service) GenerateQnA(ctx context.Context, target, category, concern string) (*QnAResult, error) {
	ctx, span := tracer.Start(ctx, "generation.QnA")
	defer span.End()
	start := time.Now()

	facts, resolved := resolvePersona(target, category, concern)
	keywords := s.relatedKeywords(ctx, resolved+" "+concern)
	instruction := s.composer.ComposeQnA(resolved, facts, concern, keywords)

	raw, err := s.llm.Generate(ctx, instruction, s.llm.DefaultOptions())
	if err != nil {
		observe("qna", resolved, "error", start)
		return nil, err
	}

	result := s.parseQnA(raw, resolved)
	observe("qna", resolved, "ok", start)
	return result, nil
}

// GenerateQnAStream 스트리밍 모드 Q&A 생성.
// 업스트림 중계 이벤트를 그대로 전달하되, done 이벤트의 페이로드는
// 추출·정제를 거친 구조화 결과(JSON)로 바꾼다.
func (s *Service) GenerateQnAStream(ctx context.Context, target, category, concern string) <-chan llm.Event {
	out := make(chan llm.Event, 8)

	facts, resolved := resolvePersona(target, category, concern)
	keywords := s.relatedKeywords(ctx, resolved+" "+concern)
	instruction := s.composer.ComposeQnA(resolved, facts, concern, keywords)

	inner := s.llm.GenerateStream(ctx, instruction, s.llm.DefaultOptions())
	start := time.Now()

	go func() {
		defer close(out)
		for ev := range inner {
			if ev.Kind == llm.EventDone {
				result := s.parseQnA(ev.Payload, resolved)
				if encoded, err := json.Marshal(result); err == nil {
					ev.Payload = string(encoded)
				} else {
					logger.Error(ctx, "failed to encode qna stream result", err)
					ev.Payload = ""
				}
				observe("qna_stream", resolved, "ok", start)
			}
			if ev.Kind == llm.EventError {
				observe("qna_stream", resolved, "error", start)
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// parseQnA 생성 전문에서 Q&A 구조를 추출한다
func (s *Service) parseQnA(raw, category string) *QnAResult {
	sections := Extract(raw, qnaSectionSpecs())

	return &QnAResult{
		Question:   First(sections, "질문"),
		Answer:     First(sections, "답변"),
		Comments:   s.normalizeComments(All(sections, "댓글")),
		Highlights: splitLines(First(sections, "핵심요약")),
		Category:   category,
	}
}

// splitLines 정제된 텍스트를 빈 줄을 제외한 줄 목록으로 나눈다
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// normalizeComments 댓글 개수를 설정값에 정확히 맞춘다.
// 생성이 더 많이 내놓으면 자르고, 모자라면 대체 문구로 채운다.
func (s *Service) normalizeComments(comments []string) []string {
	want := s.commentCount()
	out := make([]string, 0, want)
	for _, c := range comments {
		if c == "" {
			continue
		}
		out = append(out, c)
		if len(out) == want {
			return out
		}
	}
	for len(out) < want {
		out = append(out, defaultComment)
	}
	return out
}
