package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mendpath/pkg/release"
)

// GeminiGuidanceClient implements GuidanceClientInterface using Google's
// Gemini models. Useful as a free-tier alternative to OpenAI.
type GeminiGuidanceClient struct {
	client *genai.Client
	model  string
}

func NewGeminiGuidanceClient(apiKey, model string) (GuidanceClientInterface, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGuidanceClient{client: client, model: model}, nil
}

func (c *GeminiGuidanceClient) GenerateStepGuidance(ctx context.Context, step release.Step, userInput string) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.7)
	m.SetTopP(0.9)

	prompt := guidanceSystemPrompt + "\n\n" + stepInstruction(step) + "\n\nPerson: " + userInput

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", ErrAIUnavailable
	}
	return out, nil
}

// NewGuidanceClient selects the configured provider. Unknown providers
// fall back to OpenAI.
func NewGuidanceClient(provider, apiKey, model string) (GuidanceClientInterface, error) {
	switch strings.ToLower(provider) {
	case "gemini":
		return NewGeminiGuidanceClient(apiKey, model)
	default:
		return NewOpenAIGuidanceClient(apiKey, model)
	}
}
