package response_models

import "github.com/google/uuid"

type SessionResponse struct {
	ID                  uuid.UUID `json:"id"`
	FacilitatorID       uuid.UUID `json:"facilitator_id"`
	Title               string    `json:"title"`
	Description         *string   `json:"description,omitempty"`
	SessionType         string    `json:"session_type"`
	ScheduledAt         int64     `json:"scheduled_at"`
	EndsAt              int64     `json:"ends_at"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	FeeMinor            int64     `json:"fee_minor"`
	Currency            string    `json:"currency"`
	Status              string    `json:"status"`
}

type AttendanceReport struct {
	SessionID       uuid.UUID `json:"session_id"`
	TotalRegistered int64     `json:"total_registered"`
	Attended        int64     `json:"attended"`
	NoShows         int64     `json:"no_shows"`
	AttendanceRate  float64   `json:"attendance_rate"`
}

type TypeAttendanceStats struct {
	SessionType     string  `json:"session_type"`
	TotalRegistered int64   `json:"total_registered"`
	Attended        int64   `json:"attended"`
	NoShows         int64   `json:"no_shows"`
	AttendanceRate  float64 `json:"attendance_rate"`
}

type ParticipantResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	CodeName string    `json:"code_name"`
	Attended bool      `json:"attended"`
}
