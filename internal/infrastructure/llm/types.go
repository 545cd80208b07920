package llm

// 업스트림 생성 API 의 요청/응답 와이어 포맷

// generateRequest 생성 요청 본문
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

// content 대화 단위
type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// part 텍스트 조각
type part struct {
	Text string `json:"text"`
}

// generationConfig 생성 파라미터
type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// generateResponse 생성 응답 본문. 스트리밍 조각도 같은 형태다.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// candidate 생성 후보
type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// firstText 첫 후보의 첫 텍스트 파트를 꺼낸다
func (r *generateResponse) firstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	return parts[0].Text, true
}

// Options 한 번의 생성 호출에 쓰이는 파라미터
type Options struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}
