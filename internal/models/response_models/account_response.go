package response_models

import "github.com/google/uuid"

type ProfileResponse struct {
	ID                 uuid.UUID `json:"id"`
	CodeName           string    `json:"code_name"`
	Role               string    `json:"role"`
	SubscriptionStatus string    `json:"subscription_status"`
}
