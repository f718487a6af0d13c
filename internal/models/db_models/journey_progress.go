package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JourneyProgress is the single per-user row tracking movement through the
// seven RELEASE steps. CompletedSteps holds the sorted step numbers as a
// jsonb array; OverallProgress is derived server-side from its length.
type JourneyProgress struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	CurrentStep     int            `gorm:"default:1"`
	CompletedSteps  datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	OverallProgress int            `gorm:"default:0"`

	User User `gorm:"foreignKey:UserID"`
}

type JournalEntry struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index"`
	StepNumber int       `gorm:"index"`
	Prompt     string
	Content    string `gorm:"type:text"`

	User User `gorm:"foreignKey:UserID"`
}
