// Package generation 생성 결과의 추출, 정제, 오케스트레이션을 담당한다
package generation

import (
	"regexp"
	"strings"
)

// 정제 단계에서 쓰는 패턴들
var (
	// emojiPattern 이모지와 그림 기호 범위
	emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}]|[\x{2600}-\x{26FF}]|[\x{2700}-\x{27BF}]|[\x{1F1E6}-\x{1F1FF}]|\x{FE0F}|\x{200D}`)
	// headingPattern 줄 머리의 마크다운 제목 기호
	headingPattern = regexp.MustCompile(`(?m)^[ \t]*#+\s*`)
	// emphasisPattern 굵게/기울임 마크다운 기호
	emphasisPattern = regexp.MustCompile(`\*+|_{2,}|~{2,}`)
	// multiNewlinePattern 3개 이상 연속된 줄바꿈
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
)

// Clean 추출된 섹션 텍스트를 정제한다.
// 순수하고 전함수이며 멱등이다: Clean(Clean(x)) == Clean(x).
func Clean(s string) string {
	if s == "" {
		return ""
	}

	// 이스케이프된 개행 문자열과 파이프를 실제 줄바꿈으로 정규화한다
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, "|", "\n")

	// 제목 기호 제거는 이모지/강조 기호 제거 뒤에 와야
	// 새로 드러난 줄 머리 기호까지 한 번에 지워져 멱등이 유지된다
	s = emojiPattern.ReplaceAllString(s, "")
	s = emphasisPattern.ReplaceAllString(s, "")
	s = headingPattern.ReplaceAllString(s, "")

	// 줄 단위 앞뒤 공백 제거
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	// 3개 이상의 연속 줄바꿈은 정확히 2개로 줄인다
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
