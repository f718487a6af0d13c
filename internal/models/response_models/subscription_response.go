package response_models

import "github.com/google/uuid"

type SubscriptionPlan struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	Period      string    `json:"period"`
	TrialDays   int32     `json:"trial_days"`
	IsActive    bool      `json:"is_active"`
}

type CreateSubscriptionResponse struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
	Status         string `json:"status"`
}

type SubscriptionStatusResponse struct {
	Status    string `json:"status"`
	PlanCode  string `json:"plan_code,omitempty"`
	EndsAt    int64  `json:"ends_at,omitempty"`
	AutoRenew bool   `json:"auto_renew"`
}
