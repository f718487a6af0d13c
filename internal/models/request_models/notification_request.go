package request_models

type UpdatePreferencesRequest struct {
	EmailEnabled *bool `json:"email_enabled"`
	InAppEnabled *bool `json:"in_app_enabled"`

	SessionReminders  *bool `json:"session_reminders"`
	JourneyMilestones *bool `json:"journey_milestones"`
	CommunityActivity *bool `json:"community_activity"`
	BillingUpdates    *bool `json:"billing_updates"`
}
