package request_models

type CreateSessionRequest struct {
	FacilitatorID   string  `json:"facilitator_id" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description"`
	SessionType     string  `json:"session_type" binding:"required"`
	ScheduledAt     int64   `json:"scheduled_at" binding:"required"`
	EndsAt          int64   `json:"ends_at" binding:"required"`
	MaxParticipants int     `json:"max_participants" binding:"required,min=1"`
	FeeMinor        int64   `json:"fee_minor"`
	Currency        string  `json:"currency"`
	RecurrenceRule  *string `json:"recurrence_rule"`
}

type UpdateSessionRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	ScheduledAt     *int64  `json:"scheduled_at"`
	EndsAt          *int64  `json:"ends_at"`
	MaxParticipants *int    `json:"max_participants"`
	Status          *string `json:"status"`
}

type JoinSessionRequest struct {
	// CodeName is the pseudonym to use within this session only.
	CodeName string `json:"code_name" binding:"required,min=2,max=32"`
}

type AttendanceRecord struct {
	UserID   string `json:"user_id" binding:"required"`
	Attended bool   `json:"attended"`
}

type BulkAttendanceRequest struct {
	Records []AttendanceRecord `json:"records" binding:"required,dive"`
}

type SessionFeedbackRequest struct {
	Rating  int     `json:"rating" binding:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type CreateFacilitatorRequest struct {
	Name        string   `json:"name" binding:"required"`
	Bio         *string  `json:"bio"`
	Specialties []string `json:"specialties"`
}
