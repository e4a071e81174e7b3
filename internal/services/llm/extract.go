package llm

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/signalist/notifier/internal/models"
	"google.golang.org/genai"
)

// ExtractGeminiText walks a Gemini response down to the text of its first
// candidate's parts. It never fails: a nil response, a response with no
// candidates, no parts, or only empty parts all produce HasText=false.
func ExtractGeminiText(resp *genai.GenerateContentResponse) models.ModelResponse {
	if resp == nil || len(resp.Candidates) == 0 {
		return models.ModelResponse{}
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return models.ModelResponse{}
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		text.WriteString(part.Text)
	}

	return models.TextResponse(text.String())
}

// ExtractClaudeText concatenates the text blocks of a Claude message.
// Like ExtractGeminiText it is total: missing or empty content produces
// HasText=false rather than an error.
func ExtractClaudeText(msg *anthropic.Message) models.ModelResponse {
	if msg == nil {
		return models.ModelResponse{}
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return models.TextResponse(text.String())
}
