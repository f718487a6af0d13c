package request_models

type CreateSubscriptionRequest struct {
	PlanCode string `json:"plan_code" binding:"required"`
}
