package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mendpath/pkg/release"
)

// GuidanceClientInterface is a single-shot completion client used for
// step-specific guidance. Implementations exist for OpenAI and Gemini;
// the provider is chosen from config at startup via NewGuidanceClient.
type GuidanceClientInterface interface {
	GenerateStepGuidance(ctx context.Context, step release.Step, userInput string) (string, error)
}

const guidanceSystemPrompt = `You are a compassionate forgiveness therapist guiding people ` +
	`through the seven-step RELEASE methodology (Recognize, Empathize, Let Go, Embrace, ` +
	`Accept, Sustain, Evolve). Speak warmly and concretely. Never diagnose. If the person ` +
	`appears to be in danger, gently direct them to professional crisis support.`

type OpenAIGuidanceClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIGuidanceClient(apiKey, model string) (GuidanceClientInterface, error) {
	if apiKey == "" {
		return nil, errors.New("missing OpenAI API key")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGuidanceClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (c *OpenAIGuidanceClient) GenerateStepGuidance(ctx context.Context, step release.Step, userInput string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		MaxTokens:   400,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: guidanceSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: stepInstruction(step),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userInput,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrAIUnavailable
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func stepInstruction(step release.Step) string {
	return fmt.Sprintf(
		"The person is currently on step %d of 7, %q (%s): %s Keep your answer anchored to this step.",
		step.Number, step.Title, step.Letter, step.Description,
	)
}
