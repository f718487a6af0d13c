package request_models

// UpdateProgressRequest carries the client's view of progress. The server
// validates the step numbers and derives overall progress itself; any
// client-sent percentage is ignored.
type UpdateProgressRequest struct {
	CurrentStep    int   `json:"current_step" binding:"required"`
	CompletedSteps []int `json:"completed_steps"`
}

type CreateJournalEntryRequest struct {
	StepNumber int    `json:"step_number" binding:"required"`
	Prompt     string `json:"prompt"`
	Content    string `json:"content" binding:"required"`
}

type UpdateJournalEntryRequest struct {
	Content string `json:"content" binding:"required"`
}
