package response_models

import "github.com/google/uuid"

// AssistantReply is what the chat endpoint returns for one exchange.
// Source distinguishes a template answer from a model completion, and
// from the fallback used when the model call failed.
type AssistantReply struct {
	MessageID          uuid.UUID `json:"message_id"`
	Content            string    `json:"content"`
	NeedsCrisisSupport bool      `json:"needs_crisis_support"`
	StepSuggestion     *int      `json:"step_suggestion,omitempty"`
	ExerciseSuggestion string    `json:"exercise_suggestion,omitempty"`
	Source             string    `json:"source"` // "template" | "model" | "fallback"
}

type ConversationResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	StepNumber *int      `json:"step_number,omitempty"`
	CreatedAt  int64     `json:"created_at"`
}
