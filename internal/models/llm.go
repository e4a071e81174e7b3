package models

// ModelResponse is the normalized outcome of a model call. Every provider
// response funnels through this shape before the pipeline looks at it:
// HasText reports whether the response carried non-empty text. Callers must
// branch on HasText rather than inspecting provider payloads.
type ModelResponse struct {
	HasText bool   `json:"hasText"`
	Text    string `json:"text"`
}

// TextResponse builds a ModelResponse from raw extracted text
func TextResponse(text string) ModelResponse {
	return ModelResponse{HasText: text != "", Text: text}
}
