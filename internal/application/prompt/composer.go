package prompt

import (
	"strconv"
	"strings"

	"insu-copy-ai-api/internal/config"
	"insu-copy-ai-api/internal/domain/persona"
)

// Composer 페르소나 정보와 규칙 블록으로 전체 지시문을 조립한다.
// 순수 문자열 조립만 수행하며 I/O 가 없고 실패하지 않는다.
type Composer struct {
	registry *Registry
	gen      *config.GenerationConfig
}

// NewComposer 지시문 조립기를 만든다
func NewComposer(cfg *config.Config) *Composer {
	return &Composer{
		registry: NewRegistry(),
		gen:      &cfg.Generation,
	}
}

// ComposeQnA Q&A 생성 지시문을 조립한다.
// 구성: 규칙 블록 + 페르소나 고정 블록 + 고민 + 출력 형식 + 금칙어.
func (c *Composer) ComposeQnA(category string, facts persona.Facts, concern string, keywords []string) string {
	var b strings.Builder

	b.WriteString(c.registry.RuleBlock(category))
	b.WriteString("\n\n")
	b.WriteString(personaBlock(facts))
	b.WriteString("\n\n[고객 고민]\n")
	b.WriteString(strings.TrimSpace(concern))

	if block := keywordBlock(keywords); block != "" {
		b.WriteString("\n\n")
		b.WriteString(block)
	}

	b.WriteString("\n\n")
	b.WriteString(c.fillCounts(c.registry.Format("qna")))
	b.WriteString("\n\n")
	b.WriteString(c.registry.Banned())

	return b.String()
}

// ComposeBlog 블로그 생성 지시문을 조립한다
func (c *Composer) ComposeBlog(category string, facts persona.Facts, concern string, keywords []string) string {
	var b strings.Builder

	b.WriteString(c.registry.RuleBlock(category))
	b.WriteString("\n\n")
	b.WriteString(personaBlock(facts))
	b.WriteString("\n\n[글감]\n")
	b.WriteString(strings.TrimSpace(concern))

	if block := keywordBlock(keywords); block != "" {
		b.WriteString("\n\n")
		b.WriteString(block)
	}

	b.WriteString("\n\n")
	b.WriteString(c.registry.Format("blog"))
	b.WriteString("\n\n")
	b.WriteString(c.registry.Banned())

	return b.String()
}

// ComposeProposal 제안서 데이터 생성 지시문을 조립한다
func (c *Composer) ComposeProposal(category string, facts persona.Facts) string {
	var b strings.Builder

	b.WriteString(c.registry.RuleBlock(category))
	b.WriteString("\n\n")
	b.WriteString(personaBlock(facts))
	b.WriteString("\n\n")
	b.WriteString(c.fillCounts(c.registry.Format("proposal")))

	return b.String()
}

// ComposeAnalysis 콘텐츠 분석 지시문을 조립한다
func (c *Composer) ComposeAnalysis(contentText, keyword, region string) string {
	var b strings.Builder

	b.WriteString(c.registry.Format("analysis"))
	b.WriteString("\n\n[분석 대상]\n")
	b.WriteString(strings.TrimSpace(contentText))

	if keyword = strings.TrimSpace(keyword); keyword != "" {
		b.WriteString("\n\n[목표 키워드]\n")
		b.WriteString(keyword)
	}
	if region = strings.TrimSpace(region); region != "" {
		b.WriteString("\n\n[지역]\n")
		b.WriteString(region)
	}

	return b.String()
}

// ComposeRewrite 개선문 작성 지시문을 조립한다
func (c *Composer) ComposeRewrite(contentText, keyword string) string {
	var b strings.Builder

	b.WriteString(c.registry.Format("rewrite"))
	b.WriteString("\n\n[원문]\n")
	b.WriteString(strings.TrimSpace(contentText))

	if keyword = strings.TrimSpace(keyword); keyword != "" {
		b.WriteString("\n\n[목표 키워드]\n")
		b.WriteString(keyword)
	}

	b.WriteString("\n\n")
	b.WriteString(c.registry.Banned())

	return b.String()
}

// personaBlock 생성물이 페르소나에 맞게 제약되도록 성별/연령/직업을 명시한다
func personaBlock(facts persona.Facts) string {
	gender := "남성"
	if facts.Gender == persona.GenderFemale {
		gender = "여성"
	}

	var b strings.Builder
	b.WriteString("[작성자 설정]\n")
	b.WriteString("- 성별: " + gender + "\n")
	b.WriteString("- 연령대: " + facts.AgeBand + "\n")
	b.WriteString("- 직업: " + facts.Occupation + "\n")
	b.WriteString("위 작성자의 입장과 말투를 유지해 작성한다.")
	return b.String()
}

// keywordBlock 검색 연관 키워드를 참고 자료로 붙인다
func keywordBlock(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("[연관 검색어]\n")
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		b.WriteString("- " + kw + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// fillCounts 형식 블록의 개수 자리표시자를 설정값으로 채운다
func (c *Composer) fillCounts(format string) string {
	replacer := strings.NewReplacer(
		"{{comment_count}}", strconv.Itoa(c.commentCount()),
		"{{highlight_count}}", strconv.Itoa(c.highlightCount()),
		"{{item_limit}}", strconv.Itoa(c.itemLimit()),
	)
	return replacer.Replace(format)
}

func (c *Composer) commentCount() int {
	if c.gen.CommentCount > 0 {
		return c.gen.CommentCount
	}
	return 3
}

func (c *Composer) highlightCount() int {
	if c.gen.HighlightCount > 0 {
		return c.gen.HighlightCount
	}
	return 3
}

func (c *Composer) itemLimit() int {
	if c.gen.ProposalItemLimit > 0 {
		return c.gen.ProposalItemLimit
	}
	return 8
}
