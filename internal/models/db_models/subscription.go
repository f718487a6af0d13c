package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Subscription struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index"`
	PlanID uuid.UUID `gorm:"type:uuid;index"`

	Status   SubscriptionStatus `gorm:"type:varchar(16);index"`
	StartsAt int64              `gorm:"not null"`
	EndsAt   int64              `gorm:"not null"`

	CanceledAt *int64
	AutoRenew  bool `gorm:"default:true"`

	Provider      string `gorm:"index;default:stripe"`
	ProviderSubID string `gorm:"uniqueIndex"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	User User `gorm:"foreignKey:UserID"`
	Plan Plan `gorm:"foreignKey:PlanID"`
}
