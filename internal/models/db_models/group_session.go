package db_models

import (
	"github.com/google/uuid"
)

type SessionType string

const (
	SessionFoundationCircle SessionType = "foundation_circle"
	SessionHealingWorkshop  SessionType = "healing_workshop"
	SessionDeepDive         SessionType = "deep_dive"
	SessionOneOnOne         SessionType = "one_on_one"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type GroupSession struct {
	BaseModel
	FacilitatorID uuid.UUID `gorm:"type:uuid;index"`

	Title       string
	Description *string
	SessionType SessionType `gorm:"type:varchar(32);index"`

	ScheduledAt int64 `gorm:"not null;index"`
	EndsAt      int64 `gorm:"not null"`

	MaxParticipants     int `gorm:"not null"`
	CurrentParticipants int `gorm:"default:0"`

	// FeeMinor is the per-seat fee in minor units; 0 means included
	// with the subscription (foundation circles).
	FeeMinor int64  `gorm:"default:0"`
	Currency string `gorm:"size:3;default:USD"`

	Status SessionStatus `gorm:"type:varchar(16);default:scheduled;index"`

	// RecurrenceRule holds an optional cron-style recurrence hint,
	// e.g. "weekly". Informational only.
	RecurrenceRule *string

	Facilitator  Facilitator               `gorm:"foreignKey:FacilitatorID"`
	Participants []GroupSessionParticipant `gorm:"foreignKey:SessionID"`
}

type GroupSessionParticipant struct {
	BaseModel
	SessionID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_session_user"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_session_user"`

	// CodeName is the pseudonym chosen for this session only, distinct
	// from the account-level code name for cross-group anonymity.
	CodeName string

	Attended        bool `gorm:"default:false"`
	FeedbackRating  *int
	FeedbackComment *string

	Session GroupSession `gorm:"foreignKey:SessionID"`
	User    User         `gorm:"foreignKey:UserID"`
}

type Facilitator struct {
	BaseModel
	Name        string
	Bio         *string
	Specialties []string `gorm:"serializer:json"`

	// Facilitators are never hard-deleted; past sessions keep pointing
	// at the row.
	IsActive bool `gorm:"default:true"`
}
