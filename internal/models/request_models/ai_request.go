package request_models

type CreateConversationRequest struct {
	Title      string `json:"title"`
	StepNumber *int   `json:"step_number"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`

	// UseGuidance requests the LLM path instead of the template path.
	UseGuidance bool `json:"use_guidance"`
}
