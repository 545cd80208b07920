package generation

import (
	"context"
	"strings"
	"time"
)

// 블로그 섹션 태그가 없을 때의 대체 문구
const (
	defaultBlogTitle = "우리 가족 보험, 이렇게 점검해 보세요"
	defaultBlogTags  = "보험점검, 보장분석, 보험료"
)

// BlogResult 블로그 생성 결과
type BlogResult struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// GenerateBlog 블로그 포스트를 생성한다
func (s *Service) GenerateBlog(ctx context.Context, target, category, concern string) (*BlogResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Blog")
	defer span.End()
	start := time.Now()

	facts, resolved := resolvePersona(target, category, concern)
	keywords := s.relatedKeywords(ctx, resolved+" "+concern)
	instruction := s.composer.ComposeBlog(resolved, facts, concern, keywords)

	raw, err := s.llm.Generate(ctx, instruction, s.llm.DefaultOptions())
	if err != nil {
		observe("blog", resolved, "error", start)
		return nil, err
	}

	sections := Extract(raw, []SectionSpec{
		{Label: "제목", Default: defaultBlogTitle},
		{Label: "본문", Default: ""},
		{Label: "태그", Default: defaultBlogTags},
	})

	result := &BlogResult{
		Title:    First(sections, "제목"),
		Content:  First(sections, "본문"),
		Tags:     splitTags(First(sections, "태그")),
		Category: resolved,
	}

	// 본문 태그가 누락되면 추출 전 전문이 본문이다
	if result.Content == "" {
		result.Content = Clean(raw)
	}

	observe("blog", resolved, "ok", start)
	return result, nil
}

// splitTags 쉼표 구분 태그 문자열을 목록으로 나눈다
func splitTags(s string) []string {
	var out []string
	for _, tag := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
