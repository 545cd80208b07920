// Package persona 타깃 문구에서 페르소나 정보를 추론한다
package persona

import (
	"regexp"
	"strconv"
	"strings"
)

// Gender 추론된 성별
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Facts 타깃 문구에서 파생된 불변 페르소나 정보
type Facts struct {
	Gender     Gender
	AgeYears   int
	AgeBand    string
	Occupation string
}

// ageBandPattern "30대" 형태의 연령대 표현
var ageBandPattern = regexp.MustCompile(`(\d{1,2})대`)

// Analyze 타깃 문구에서 페르소나 정보를 추출한다.
// 전함수(total): 어떤 입력에도 항상 값을 돌려주며 실패하지 않는다.
func Analyze(target string) Facts {
	facts := Facts{
		Gender:     GenderMale,
		AgeYears:   defaultAgeYears,
		AgeBand:    strconv.Itoa(defaultAgeYears) + "대",
		Occupation: defaultOccupation,
	}

	for _, kw := range femaleKeywords {
		if strings.Contains(target, kw) {
			facts.Gender = GenderFemale
			break
		}
	}

	if m := ageBandPattern.FindStringSubmatch(target); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil && age > 0 {
			facts.AgeYears = age
			facts.AgeBand = m[1] + "대"
		}
	}

	for _, rule := range occupationRules {
		if containsAny(target, rule.Keywords) {
			facts.Occupation = rule.Result
			break
		}
	}

	return facts
}

// Override 호출자가 직접 지정한 페르소나 값.
// 0 이나 빈 값은 추론 결과를 유지한다.
type Override struct {
	AgeYears int
	Gender   string
}

// Apply 추론된 Facts 위에 호출자 지정값을 덮어쓴다
func (f Facts) Apply(o Override) Facts {
	if o.AgeYears > 0 {
		f.AgeYears = o.AgeYears
		f.AgeBand = strconv.Itoa(o.AgeYears/10*10) + "대"
	}
	switch strings.ToLower(strings.TrimSpace(o.Gender)) {
	case "female", "f", "여", "여성":
		f.Gender = GenderFemale
	case "male", "m", "남", "남성":
		f.Gender = GenderMale
	}
	return f
}

// InferCategory 고민 문구에서 도메인 카테고리를 추론한다.
// 트리거 키워드가 있으면 호출자가 준 카테고리를 덮어쓰고, 없으면 그대로 둔다.
func InferCategory(category, concern string) string {
	for _, rule := range categoryRules {
		if containsAny(concern, rule.Keywords) {
			return rule.Result
		}
	}
	if strings.TrimSpace(category) == "" {
		return CategoryGeneric
	}
	return category
}

// containsAny 키워드 중 하나라도 포함되면 true
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
