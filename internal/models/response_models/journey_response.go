package response_models

import "github.com/google/uuid"

type ProgressResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	CurrentStep     int       `json:"current_step"`
	CompletedSteps  []int     `json:"completed_steps"`
	OverallProgress int       `json:"overall_progress"`
	UpdatedAt       int64     `json:"updated_at"`
}

type JournalEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	StepNumber int       `json:"step_number"`
	Prompt     string    `json:"prompt,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  int64     `json:"created_at"`
	UpdatedAt  int64     `json:"updated_at"`
}
