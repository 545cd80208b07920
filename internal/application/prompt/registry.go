// Package prompt 생성 지시문 조립 기능을 제공한다
package prompt

import (
	"embed"
	"strings"
	"sync"

	"insu-copy-ai-api/internal/domain/persona"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// Registry 카테고리별 규칙 블록 저장소.
// 규칙 블록은 해당 상품군의 필수 용어, 수치 근거, 금칙어를 담은 정적 템플릿이다.
type Registry struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewRegistry 규칙 블록 저장소를 만든다
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[string]string),
	}
}

// RuleBlock 카테고리의 규칙 블록을 돌려준다.
// 알 수 없는 카테고리는 일반 블록으로 대체한다.
func (r *Registry) RuleBlock(category string) string {
	file := resolveRuleFile(category)

	r.mu.RLock()
	if block, ok := r.cache[file]; ok {
		r.mu.RUnlock()
		return block
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if block, ok := r.cache[file]; ok {
		return block
	}

	block := readEmbeddedText(file)
	if block == "" && file != "templates/rule_generic.txt" {
		block = readEmbeddedText("templates/rule_generic.txt")
	}
	r.cache[file] = block
	return block
}

// Banned 금칙어 블록
func (r *Registry) Banned() string {
	return r.section("templates/banned.txt")
}

// Format 출력 형식 블록을 돌려준다 (qna, blog, proposal, analysis)
func (r *Registry) Format(kind string) string {
	return r.section("templates/format_" + kind + ".txt")
}

// section 캐시를 거쳐 템플릿 파일 하나를 읽는다
func (r *Registry) section(file string) string {
	r.mu.RLock()
	if block, ok := r.cache[file]; ok {
		r.mu.RUnlock()
		return block
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if block, ok := r.cache[file]; ok {
		return block
	}
	block := readEmbeddedText(file)
	r.cache[file] = block
	return block
}

// resolveRuleFile 카테고리 라벨을 규칙 블록 파일로 매핑한다
func resolveRuleFile(category string) string {
	switch category {
	case persona.CategoryInheritance:
		return "templates/rule_inheritance.txt"
	case persona.CategoryCEO:
		return "templates/rule_ceo.txt"
	case persona.CategoryDementia:
		return "templates/rule_dementia.txt"
	case persona.CategoryDollar:
		return "templates/rule_dollar.txt"
	case persona.CategorySubstandard:
		return "templates/rule_substandard.txt"
	case persona.CategoryWholeLife:
		return "templates/rule_wholelife.txt"
	default:
		return "templates/rule_generic.txt"
	}
}

// readEmbeddedText 내장 템플릿 파일을 읽는다. 없으면 빈 문자열.
func readEmbeddedText(path string) string {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
