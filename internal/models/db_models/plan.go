package db_models

import (
	"gorm.io/datatypes"
)

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

type Plan struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"` // e.g. "guided_monthly", "guided_yearly"
	Name        string
	Description *string
	Period      BillingPeriod `gorm:"type:varchar(8)"`
	PriceMinor  int64         // 1999 = $19.99
	Currency    string        `gorm:"size:3"`
	TrialDays   int32         `gorm:"default:0"`
	IsActive    bool          `gorm:"default:true"`

	// StripePriceID maps the plan onto the provider's price object.
	StripePriceID string `gorm:"index"`

	// Feature flags, limits, etc.
	Features datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
