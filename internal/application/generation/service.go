package generation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"insu-copy-ai-api/internal/application/prompt"
	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/domain/persona"
	"insu-copy-ai-api/internal/infrastructure/llm"
	"insu-copy-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("generation")

// Generator 생성 호출 인터페이스. 테스트에서 대체할 수 있다.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts llm.Options) (string, error)
	GenerateStream(ctx context.Context, prompt string, opts llm.Options) <-chan llm.Event
	DefaultOptions() llm.Options
}

// KeywordProvider 연관 키워드 제공 인터페이스. 실패는 빈 목록으로 처리된다.
type KeywordProvider interface {
	RelatedKeywords(ctx context.Context, query string) []string
}

// Service 콘텐츠 생성 오케스트레이터
type Service struct {
	llm      Generator
	search   KeywordProvider
	composer *prompt.Composer
	gen      *config.GenerationConfig
}

// NewService 생성 서비스를 만든다. search 는 nil 일 수 있다.
func NewService(cfg *config.Config, generator Generator, keywords KeywordProvider) *Service {
	return &Service{
		llm:      generator,
		search:   keywords,
		composer: prompt.NewComposer(cfg),
		gen:      &cfg.Generation,
	}
}

// relatedKeywords 검색 연동이 있으면 연관 키워드를 가져온다 (fail-open)
func (s *Service) relatedKeywords(ctx context.Context, query string) []string {
	if s.search == nil {
		return nil
	}
	return s.search.RelatedKeywords(ctx, query)
}

// commentCount 응답에 포함할 댓글 개수
func (s *Service) commentCount() int {
	if s.gen.CommentCount > 0 {
		return s.gen.CommentCount
	}
	return 3
}

// itemLimit 제안서 항목 상한
func (s *Service) itemLimit() int {
	if s.gen.ProposalItemLimit > 0 {
		return s.gen.ProposalItemLimit
	}
	return 8
}

// observe 생성 지표를 기록한다
func observe(kind, category, status string, start time.Time) {
	metrics.GenerationTotal.WithLabelValues(kind, category, status).Inc()
	metrics.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// resolvePersona 요청 입력에서 페르소나와 카테고리를 확정한다
func resolvePersona(target, category, concern string) (persona.Facts, string) {
	facts := persona.Analyze(target)
	resolved := persona.InferCategory(category, concern)
	return facts, resolved
}
