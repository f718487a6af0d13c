package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Payment records one charge: either a subscription invoice or a paid
// workshop seat (SessionID set). Deleting a session cascades over its
// payments together with its participants.
type Payment struct {
	BaseModel
	UserID         uuid.UUID  `gorm:"type:uuid;index"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index"`
	SessionID      *uuid.UUID `gorm:"type:uuid;index"`

	AmountMinor int64
	Currency    string        `gorm:"size:3"`
	Status      PaymentStatus `gorm:"type:varchar(16);index"`

	Provider      string `gorm:"index"`
	ProviderTxnID string `gorm:"index"` // idempotency across webhooks

	// Unix seconds.
	PaidAt     *int64
	RefundedAt *int64

	// Raw receipts, webhook payloads, failure reasons.
	Receipt  datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	User         User          `gorm:"foreignKey:UserID"`
	Subscription *Subscription `gorm:"foreignKey:SubscriptionID"`
}
