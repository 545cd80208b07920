package generation

import (
	"regexp"
	"strings"
)

// SectionSpec 추출할 섹션 하나의 정의
type SectionSpec struct {
	// Label 태그 라벨. 숫자 접미사 없이 기본형으로 적는다 (예: "질문", "댓글")
	Label string
	// Repeat true 면 "댓글1".."댓글N" 처럼 번호 붙은 태그를 전부 수집한다
	Repeat bool
	// Default 태그가 없을 때 대신 쓸 문자열. 부재는 에러가 아니다.
	Default string
}

// Section 추출된 섹션
type Section struct {
	Label string
	Raw   string
	Clean string
}

// tagOccurrence 원문에서 찾은 태그 위치
type tagOccurrence struct {
	label      string
	start, end int
}

// Extract 태그로 구분된 생성 결과를 섹션별로 나눈다.
// 각 섹션은 자기 태그 뒤부터 다음 알려진 태그(또는 문서 끝) 앞까지다.
// 태그가 전혀 없는 라벨은 Default 로 채운다. 항상 성공한다 (best-effort).
func Extract(raw string, specs []SectionSpec) map[string][]Section {
	occurrences := findTags(raw, specs)

	// 라벨별로 본문 조각을 등장 순서대로 수집한다
	byLabel := make(map[string][]Section, len(specs))
	for i, occ := range occurrences {
		bodyEnd := len(raw)
		if i+1 < len(occurrences) {
			bodyEnd = occurrences[i+1].start
		}
		body := raw[occ.end:bodyEnd]
		byLabel[occ.label] = append(byLabel[occ.label], Section{
			Label: occ.label,
			Raw:   body,
			Clean: Clean(body),
		})
	}

	out := make(map[string][]Section, len(specs))
	for _, spec := range specs {
		sections := byLabel[spec.Label]
		if len(sections) == 0 {
			out[spec.Label] = []Section{{
				Label: spec.Label,
				Raw:   spec.Default,
				Clean: Clean(spec.Default),
			}}
			continue
		}
		if !spec.Repeat {
			sections = sections[:1]
		}
		out[spec.Label] = sections
	}
	return out
}

// findTags 알려진 라벨의 태그 위치를 문서 순서대로 찾는다.
// 번호 접미사가 붙은 태그([댓글1])도 기본 라벨로 귀속시킨다.
func findTags(raw string, specs []SectionSpec) []tagOccurrence {
	if len(specs) == 0 {
		return nil
	}

	alternatives := make([]string, 0, len(specs))
	for _, spec := range specs {
		alternatives = append(alternatives, regexp.QuoteMeta(spec.Label))
	}
	pattern := regexp.MustCompile(`\[\s*(` + strings.Join(alternatives, "|") + `)\s*\d*\s*\]`)

	matches := pattern.FindAllStringSubmatchIndex(raw, -1)
	occurrences := make([]tagOccurrence, 0, len(matches))
	for _, m := range matches {
		occurrences = append(occurrences, tagOccurrence{
			label: raw[m[2]:m[3]],
			start: m[0],
			end:   m[1],
		})
	}
	return occurrences
}

// First 라벨의 첫 섹션 정제 텍스트를 꺼내는 편의 함수
func First(sections map[string][]Section, label string) string {
	list := sections[label]
	if len(list) == 0 {
		return ""
	}
	return list[0].Clean
}

// All 라벨의 모든 섹션 정제 텍스트를 꺼내는 편의 함수
func All(sections map[string][]Section, label string) []string {
	list := sections[label]
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Clean)
	}
	return out
}
