package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/domain/persona"
	"insu-copy-ai-api/internal/infrastructure/llm"
)

// fakeGenerator 프롬프트를 받아 미리 정한 응답을 돌려주는 테스트 더블
type fakeGenerator struct {
	respond func(prompt string) (string, error)
	calls   atomic.Int32
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ llm.Options) (string, error) {
	f.calls.Add(1)
	return f.respond(prompt)
}

func (f *fakeGenerator) GenerateStream(_ context.Context, prompt string, _ llm.Options) <-chan llm.Event {
	ch := make(chan llm.Event, 4)
	go func() {
		defer close(ch)
		f.calls.Add(1)
		text, err := f.respond(prompt)
		if err != nil {
			ch <- llm.Event{Kind: llm.EventError, Message: err.Error()}
			return
		}
		ch <- llm.Event{Kind: llm.EventContent, Payload: text}
		ch <- llm.Event{Kind: llm.EventDone, Percent: 100, Payload: text}
	}()
	return ch
}

func (f *fakeGenerator) DefaultOptions() llm.Options { return llm.Options{} }

func newTestService(t *testing.T, gen Generator) *Service {
	t.Helper()
	cfg := &config.Config{
		Generation: config.GenerationConfig{
			CommentCount:      3,
			HighlightCount:    3,
			ProposalItemLimit: 8,
		},
	}
	return NewService(cfg, gen, nil)
}

const sampleQnA = `[질문1]
30대 워킹맘인데 종신보험이 필요할까요?

[답변1]
자녀가 있다면 사망 보장의 우선순위를 먼저 점검해 보시길 권합니다.

[댓글1]
저도 같은 고민 했어요.

[댓글2]
답변 감사합니다!

[댓글3]
도움이 많이 됐습니다.

[핵심요약]
사망 보장 우선순위 점검
보험료는 소득의 적정 비율로
`

func TestGenerateQnA(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) { return sampleQnA, nil }}
	svc := newTestService(t, gen)

	result, err := svc.GenerateQnA(context.Background(), "30대 워킹맘", "", "종신보험이 필요할까요")
	require.NoError(t, err)

	assert.Contains(t, result.Question, "종신보험")
	assert.Contains(t, result.Answer, "사망 보장")
	assert.Len(t, result.Comments, 3)
	assert.Len(t, result.Highlights, 2)
	assert.Equal(t, "종신보험", result.Category)
}

func TestGenerateQnAPadsMissingComments(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "[질문1]Q[답변1]A[댓글1]하나뿐", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateQnA(context.Background(), "", "", "")
	require.NoError(t, err)

	require.Len(t, result.Comments, 3)
	assert.Equal(t, "하나뿐", result.Comments[0])
	assert.Equal(t, defaultComment, result.Comments[1])
	assert.Equal(t, defaultComment, result.Comments[2])
}

func TestGenerateQnAPropagatesError(t *testing.T) {
	wantErr := errors.New("upstream down")
	gen := &fakeGenerator{respond: func(string) (string, error) { return "", wantErr }}
	svc := newTestService(t, gen)

	_, err := svc.GenerateQnA(context.Background(), "", "", "")
	assert.ErrorIs(t, err, wantErr)
}

func TestGenerateQnAStreamReplacesDonePayload(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) { return sampleQnA, nil }}
	svc := newTestService(t, gen)

	var done *llm.Event
	for ev := range svc.GenerateQnAStream(context.Background(), "30대 워킹맘", "", "") {
		if ev.Kind == llm.EventDone {
			ev := ev
			done = &ev
		}
	}
	require.NotNil(t, done)

	var result QnAResult
	require.NoError(t, json.Unmarshal([]byte(done.Payload), &result))
	assert.Contains(t, result.Question, "종신보험")
	assert.Len(t, result.Comments, 3)
}

func TestGenerateBlog(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "[제목]상속세, 미리 준비하면 다릅니다\n[본문]상속 재산이 10억을 넘으면...\n[태그]상속세, 증여, #종신보험", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateBlog(context.Background(), "60대 자산가", "상속", "")
	require.NoError(t, err)

	assert.Equal(t, "상속세, 미리 준비하면 다릅니다", result.Title)
	assert.Contains(t, result.Content, "상속 재산")
	assert.Equal(t, []string{"상속세", "증여", "종신보험"}, result.Tags)
}

func TestGenerateBlogFallsBackToFullText(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "태그 없이 그냥 쓴 본문입니다.", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateBlog(context.Background(), "", "", "")
	require.NoError(t, err)

	assert.Equal(t, defaultBlogTitle, result.Title)
	assert.Equal(t, "태그 없이 그냥 쓴 본문입니다.", result.Content)
}

func TestGenerateProposal(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return `[상품명]
가족사랑 종합보장 플랜

[항목]
일반사망|1억원|45,000원|O
암진단|3천만원|22,000|X
뇌혈관진단|2천만원|18,000|X

[합계]
85,000원
`, nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateProposal(context.Background(), "40대 가장", "", "", persona.Override{})
	require.NoError(t, err)

	assert.Equal(t, "가족사랑 종합보장 플랜", result.Product)
	require.Len(t, result.Items, 3)
	assert.Equal(t, "일반사망", result.Items[0].Name)
	assert.Equal(t, 45000, result.Items[0].Premium)
	assert.True(t, result.Items[0].IsHighlight)
	assert.False(t, result.Items[1].IsHighlight)
	assert.Equal(t, 85000, result.Total)
}

func TestGenerateProposalSumsWhenTotalMissing(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "[상품명]플랜\n[항목]\n일반사망|1억원|30000|O\n암진단|3천만원|20000|X", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateProposal(context.Background(), "", "", "", persona.Override{})
	require.NoError(t, err)
	assert.Equal(t, 50000, result.Total)
}

func TestGenerateProposalHonorsItemLimit(t *testing.T) {
	var rows []string
	for i := 0; i < 12; i++ {
		rows = append(rows, "보장|1천만원|1000|X")
	}
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "[상품명]플랜\n[항목]\n" + strings.Join(rows, "\n"), nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateProposal(context.Background(), "", "", "", persona.Override{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 8)
}

func TestGenerateProposalCustomerOverrideWins(t *testing.T) {
	var prompt string
	gen := &fakeGenerator{respond: func(p string) (string, error) {
		prompt = p
		return "[상품명]플랜\n[항목]\n일반사망|1억원|30000|O", nil
	}}
	svc := newTestService(t, gen)

	_, err := svc.GenerateProposal(context.Background(), "30대 가장", "", "", persona.Override{
		AgeYears: 55,
		Gender:   "female",
	})
	require.NoError(t, err)

	// 타깃 문구의 "30대" 추론보다 호출자 지정 나이/성별이 우선한다
	assert.Contains(t, prompt, "50대")
	assert.NotContains(t, prompt, "30대")
	assert.Contains(t, prompt, "여성")
}

func TestGenerateProposalSkipsMalformedRows(t *testing.T) {
	gen := &fakeGenerator{respond: func(string) (string, error) {
		return "[상품명]플랜\n[항목]\n표 형식이 아닌 설명 줄\n열부족|값\n일반사망|1억원|30000|O", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.GenerateProposal(context.Background(), "", "", "", persona.Override{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "일반사망", result.Items[0].Name)
}

func TestAnalyzeContent(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "[개선문]") {
			return "[개선문]더 읽기 쉽게 고친 글입니다.", nil
		}
		return "[점수]\n전문성:85\n신뢰도:90\n가독성:70\n검색최적화:120\n설득력:-5\n[분석]\n전반적으로 준수합니다.", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.AnalyzeContent(context.Background(), "분석할 본문", "종신보험", "서울")
	require.NoError(t, err)

	assert.Equal(t, 85, result.Scores["전문성"])
	assert.Equal(t, 100, result.Scores["검색최적화"], "점수는 100 을 넘지 않는다")
	assert.Equal(t, 0, result.Scores["설득력"], "점수는 0 아래로 내려가지 않는다")
	assert.Equal(t, "전반적으로 준수합니다.", result.AnalysisText)
	assert.Equal(t, "더 읽기 쉽게 고친 글입니다.", result.ImprovedText)
	assert.Equal(t, int32(2), gen.calls.Load(), "평가와 개선문은 별도 호출이다")
}

func TestAnalyzeContentDefaultsMissingAxes(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "[개선문]") {
			return "[개선문]개선", nil
		}
		return "[점수]\n전문성:80\n[분석]\n짧은 분석", nil
	}}
	svc := newTestService(t, gen)

	result, err := svc.AnalyzeContent(context.Background(), "본문", "", "")
	require.NoError(t, err)

	assert.Equal(t, 80, result.Scores["전문성"])
	for _, axis := range []string{"신뢰도", "가독성", "검색최적화", "설득력"} {
		assert.Equal(t, defaultScore, result.Scores[axis], axis)
	}
}

func TestAnalyzeContentFailsWhenEitherCallFails(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "[개선문]") {
			return "", wantErr
		}
		return "[점수]\n전문성:80\n[분석]\n분석", nil
	}}
	svc := newTestService(t, gen)

	_, err := svc.AnalyzeContent(context.Background(), "본문", "", "")
	assert.ErrorIs(t, err, wantErr)
}
