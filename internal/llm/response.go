package llm

import (
	"fmt"
	"strings"
)

// Kind tags the provider-specific shape held by a Response.
type Kind int

// Response kinds.
const (
	KindGemini Kind = iota + 1
	KindOpenRouter
)

func (k Kind) String() string {
	switch k {
	case KindGemini:
		return NameGemini
	case KindOpenRouter:
		return NameOpenRouter
	default:
		return "unknown"
	}
}

// Response is a decoded provider response. Exactly one payload is set,
// matching Kind.
type Response struct {
	Kind       Kind
	Gemini     *GeminiPayload
	OpenRouter *OpenRouterPayload
}

// GeminiPayload is the generateContent response body.
type GeminiPayload struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// OpenRouterPayload is the chat completions response body.
type OpenRouterPayload struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Text returns the generated text: the first candidate's first part for
// Gemini, the first choice's message for OpenRouter.
func (r Response) Text() (string, error) {
	var text string
	switch r.Kind {
	case KindGemini:
		if r.Gemini == nil || len(r.Gemini.Candidates) == 0 || len(r.Gemini.Candidates[0].Content.Parts) == 0 {
			return "", ErrEmptyResponse
		}
		text = r.Gemini.Candidates[0].Content.Parts[0].Text
	case KindOpenRouter:
		if r.OpenRouter == nil || len(r.OpenRouter.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		text = r.OpenRouter.Choices[0].Message.Content
	default:
		return "", fmt.Errorf("llm: unknown response kind %d", r.Kind)
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
