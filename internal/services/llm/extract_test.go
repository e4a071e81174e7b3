package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"
)

func TestExtractGeminiTextEmptyShapes(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil candidate", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{nil}}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"no parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}},
		{"empty part text", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: ""}}}}},
		}},
		{"nil part", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{nil}}}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ExtractGeminiText(tc.resp)
			if result.HasText {
				t.Errorf("Expected HasText=false, got text %q", result.Text)
			}
			if result.Text != "" {
				t.Errorf("Expected empty text, got %q", result.Text)
			}
		})
	}
}

func TestExtractGeminiTextConcatenatesParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{
					{Text: "<h3>Market Recap</h3>"},
					nil,
					{Text: "<p>Stocks rallied.</p>"},
				},
			},
		}},
	}

	result := ExtractGeminiText(resp)
	if !result.HasText {
		t.Fatal("Expected HasText=true")
	}
	expected := "<h3>Market Recap</h3><p>Stocks rallied.</p>"
	if result.Text != expected {
		t.Errorf("Expected %q, got %q", expected, result.Text)
	}
}

func TestExtractGeminiTextUsesFirstCandidate(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "first"}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "second"}}}},
		},
	}

	result := ExtractGeminiText(resp)
	if result.Text != "first" {
		t.Errorf("Expected first candidate text, got %q", result.Text)
	}
}

func TestExtractClaudeTextEmptyShapes(t *testing.T) {
	if result := ExtractClaudeText(nil); result.HasText {
		t.Error("Expected HasText=false for nil message")
	}
	if result := ExtractClaudeText(&anthropic.Message{}); result.HasText {
		t.Error("Expected HasText=false for message with no content blocks")
	}

	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use"},
		},
	}
	if result := ExtractClaudeText(msg); result.HasText {
		t.Error("Expected HasText=false when no text blocks are present")
	}
}

func TestExtractClaudeTextConcatenatesTextBlocks(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "<p>Morning brief.</p>"},
			{Type: "tool_use"},
			{Type: "text", Text: "<p>Afternoon update.</p>"},
		},
	}

	result := ExtractClaudeText(msg)
	if !result.HasText {
		t.Fatal("Expected HasText=true")
	}
	expected := "<p>Morning brief.</p><p>Afternoon update.</p>"
	if result.Text != expected {
		t.Errorf("Expected %q, got %q", expected, result.Text)
	}
}
