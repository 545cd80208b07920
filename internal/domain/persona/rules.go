package persona

// keywordRule 키워드 매칭 규칙. 앞에 있는 규칙이 먼저 평가된다 (first-match-wins).
type keywordRule struct {
	Keywords []string
	Result   string
}

// femaleKeywords 포함 시 성별을 여성으로 판정하는 키워드
var femaleKeywords = []string{
	"엄마", "워킹맘", "주부", "아내", "며느리", "딸",
	"시어머니", "장모", "여성", "언니",
}

// occupationRules 직업 추정 규칙. 구체적인 직업이 포괄적인 직업보다 앞에 온다.
// (예: "워킹맘"이 "직장인"보다 먼저 매칭되어야 한다)
var occupationRules = []keywordRule{
	{Keywords: []string{"워킹맘"}, Result: "워킹맘"},
	{Keywords: []string{"자영업", "사장님", "소상공인"}, Result: "자영업자"},
	{Keywords: []string{"법인", "대표", "CEO", "임원"}, Result: "법인 대표"},
	{Keywords: []string{"공무원"}, Result: "공무원"},
	{Keywords: []string{"교사", "선생님"}, Result: "교사"},
	{Keywords: []string{"전업주부", "주부"}, Result: "전업주부"},
	{Keywords: []string{"프리랜서"}, Result: "프리랜서"},
	{Keywords: []string{"은퇴", "퇴직"}, Result: "은퇴자"},
	{Keywords: []string{"가장", "직장인", "회사원"}, Result: "직장인"},
}

// defaultOccupation 어떤 규칙에도 해당하지 않을 때의 직업
const defaultOccupation = "직장인"

// defaultAgeYears 연령대가 없을 때의 기본 나이
const defaultAgeYears = 40

// categoryRules 고민 문구 기반 카테고리 추론 규칙.
// 특수 상품군을 일반 상품군보다 먼저 검사해 오분류를 막는다.
var categoryRules = []keywordRule{
	{Keywords: []string{"상속", "증여", "상속세", "증여세"}, Result: CategoryInheritance},
	{Keywords: []string{"법인", "CEO", "대표이사", "가지급금", "퇴직금"}, Result: CategoryCEO},
	{Keywords: []string{"치매", "간병", "요양", "장기요양"}, Result: CategoryDementia},
	{Keywords: []string{"달러", "외화", "환율"}, Result: CategoryDollar},
	{Keywords: []string{"유병자", "지병", "당뇨", "고혈압", "만성질환"}, Result: CategorySubstandard},
}

// 표준 카테고리 라벨
const (
	CategoryInheritance = "상속증여"
	CategoryCEO         = "CEO법인"
	CategoryDementia    = "치매간병"
	CategoryDollar      = "달러보험"
	CategorySubstandard = "유병자보험"
	CategoryWholeLife   = "종신보험"
	CategoryGeneric     = "보험일반"
)
