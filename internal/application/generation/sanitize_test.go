package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsEmoji(t *testing.T) {
	assert.Equal(t, "보험 점검 추천", Clean("보험 점검 추천 😀👍✨"))
	assert.Equal(t, "안내", Clean("✅ 안내 ☎️"))
}

func TestCleanStripsMarkdown(t *testing.T) {
	assert.Equal(t, "제목입니다", Clean("## 제목입니다"))
	assert.Equal(t, "강조 텍스트", Clean("**강조** *텍스트*"))
	assert.Equal(t, "밑줄", Clean("__밑줄__"))
}

func TestCleanCollapsesNewlines(t *testing.T) {
	assert.Equal(t, "a\n\nb", Clean("a\n\n\n\n\nb"))
}

func TestCleanTrimsLines(t *testing.T) {
	assert.Equal(t, "첫 줄\n둘째 줄", Clean("  첫 줄  \n   둘째 줄   "))
}

func TestCleanNormalizesEscapes(t *testing.T) {
	assert.Equal(t, "앞\n뒤", Clean(`앞\n뒤`))
	assert.Equal(t, "좌\n우", Clean("좌|우"))
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"평문",
		"## 제목\n\n\n**강조** 😀",
		`이스케이프\n줄바꿈|파이프`,
		"   공백   \n\n\n\n끝 ✨",
		"####### 깊은 제목",
		"**# 강조 속 제목",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "입력: %q", in)
	}
}

func TestCleanEmptyInput(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "", Clean("   \n\n   "))
}
