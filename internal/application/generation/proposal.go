package generation

import (
	"context"
	"strings"
	"time"
	"unicode"

	"insu-copy-ai-api/internal/domain/persona"
)

// defaultProposalProduct 상품명 태그가 없을 때의 대체 문구
const defaultProposalProduct = "맞춤 보장 제안"

// ProposalItem 제안서 보장 항목 한 줄
type ProposalItem struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Premium     int    `json:"premium"`
	IsHighlight bool   `json:"is_highlight"`
}

// ProposalResult 보장 제안서 생성 결과
type ProposalResult struct {
	Product  string         `json:"product"`
	Items    []ProposalItem `json:"items"`
	Total    int            `json:"total"`
	Category string         `json:"category"`
}

// GenerateProposal 보장 제안서를 생성한다.
// 호출자가 나이/성별을 직접 지정하면 타깃 문구 추론보다 우선한다.
func (s *Service) GenerateProposal(ctx context.Context, target, category, concern string, override persona.Override) (*ProposalResult, error) {
	ctx, span := tracer.Start(ctx, "generation.Proposal")
	defer span.End()
	start := time.Now()

	facts, resolved := resolvePersona(target, category, concern)
	facts = facts.Apply(override)
	instruction := s.composer.ComposeProposal(resolved, facts)

	raw, err := s.llm.Generate(ctx, instruction, s.llm.DefaultOptions())
	if err != nil {
		observe("proposal", resolved, "error", start)
		return nil, err
	}

	sections := Extract(raw, []SectionSpec{
		{Label: "상품명", Default: defaultProposalProduct},
		{Label: "항목", Default: ""},
		{Label: "합계", Default: ""},
	})

	// 항목 행은 파이프 구분이라 Clean 이전 원문에서 파싱한다
	items := parseProposalItems(firstRaw(sections, "항목"), s.itemLimit())

	result := &ProposalResult{
		Product:  First(sections, "상품명"),
		Items:    items,
		Total:    resolveTotal(First(sections, "합계"), items),
		Category: resolved,
	}

	observe("proposal", resolved, "ok", start)
	return result, nil
}

// parseProposalItems 파이프 구분 항목 행을 파싱한다.
// 형식: 보장명|가입금액|월보험료|주력 여부(O/X). 열이 모자란 행은 건너뛴다.
func parseProposalItems(body string, limit int) []ProposalItem {
	var out []ProposalItem
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") {
			continue
		}
		cols := strings.Split(line, "|")
		if len(cols) < 3 {
			continue
		}
		item := ProposalItem{
			Name:    strings.TrimSpace(cols[0]),
			Amount:  strings.TrimSpace(cols[1]),
			Premium: parseAmount(cols[2]),
		}
		if item.Name == "" {
			continue
		}
		if len(cols) >= 4 {
			flag := strings.ToUpper(strings.TrimSpace(cols[3]))
			item.IsHighlight = flag == "O"
		}
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// resolveTotal 합계 태그 값을 우선하고, 없으면 항목 보험료를 합산한다
func resolveTotal(totalText string, items []ProposalItem) int {
	if total := parseAmount(totalText); total > 0 {
		return total
	}
	sum := 0
	for _, item := range items {
		sum += item.Premium
	}
	return sum
}

// parseAmount 문자열에서 숫자만 남겨 정수로 바꾼다 ("35,000원" -> 35000)
func parseAmount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// firstRaw 섹션의 정제 전 원문을 반환한다
func firstRaw(sections map[string][]Section, label string) string {
	if list, ok := sections[label]; ok && len(list) > 0 {
		return list[0].Raw
	}
	return ""
}
