package generation

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// scoreAxes 점수 축. 응답에서 누락된 축은 defaultScore 로 채운다.
var scoreAxes = []string{"전문성", "신뢰도", "가독성", "검색최적화", "설득력"}

const defaultScore = 50

// AnalysisResult 콘텐츠 분석 결과
type AnalysisResult struct {
	Scores       map[string]int `json:"scores"`
	AnalysisText string         `json:"analysis_text"`
	ImprovedText string         `json:"improved_text"`
}

// AnalyzeContent 콘텐츠를 평가하고 개선문을 함께 생성한다.
// 평가 호출과 개선문 호출은 서로 독립이라 동시에 실행한다.
func (s *Service) AnalyzeContent(ctx context.Context, contentText, keyword, region string) (*AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Analyze")
	defer span.End()
	start := time.Now()

	var scoreRaw, rewriteRaw string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.llm.Generate(gctx, s.composer.ComposeAnalysis(contentText, keyword, region), s.llm.DefaultOptions())
		if err != nil {
			return err
		}
		scoreRaw = raw
		return nil
	})
	g.Go(func() error {
		raw, err := s.llm.Generate(gctx, s.composer.ComposeRewrite(contentText, keyword), s.llm.DefaultOptions())
		if err != nil {
			return err
		}
		rewriteRaw = raw
		return nil
	})
	if err := g.Wait(); err != nil {
		observe("analysis", "", "error", start)
		return nil, err
	}

	scoreSections := Extract(scoreRaw, []SectionSpec{
		{Label: "점수", Default: ""},
		{Label: "분석", Default: ""},
	})
	rewriteSections := Extract(rewriteRaw, []SectionSpec{
		{Label: "개선문", Default: ""},
	})

	improved := First(rewriteSections, "개선문")
	if improved == "" {
		improved = Clean(rewriteRaw)
	}

	result := &AnalysisResult{
		Scores:       parseScores(First(scoreSections, "점수")),
		AnalysisText: First(scoreSections, "분석"),
		ImprovedText: improved,
	}

	observe("analysis", "", "ok", start)
	return result, nil
}

// parseScores "전문성:85" 형식의 행을 축별 점수로 파싱한다.
// 값은 0~100 으로 잘라내고, 없는 축은 defaultScore 를 쓴다.
func parseScores(body string) map[string]int {
	parsed := make(map[string]int)
	for _, line := range strings.Split(body, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			continue
		}
		parsed[strings.TrimSpace(name)] = clampScore(n)
	}

	scores := make(map[string]int, len(scoreAxes))
	for _, axis := range scoreAxes {
		if v, ok := parsed[axis]; ok {
			scores[axis] = v
			continue
		}
		scores[axis] = defaultScore
	}
	return scores
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
