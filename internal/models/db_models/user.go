package db_models

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

type SubscriptionStatus string

const (
	SubStatusFree     SubscriptionStatus = "free"
	SubStatusTrialing SubscriptionStatus = "trialing"
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
	SubStatusExpired  SubscriptionStatus = "expired"
)

// IsPremium reports whether the status grants access to gated features.
func (s SubscriptionStatus) IsPremium() bool {
	return s == SubStatusActive || s == SubStatusTrialing
}

type User struct {
	BaseModel
	Email        string `gorm:"unique"`
	PasswordHash string

	// CodeName is the pseudonym shown everywhere instead of a real name.
	// Journal entries, chat and group sessions never expose Email.
	CodeName string `gorm:"index"`

	Role UserRole `gorm:"default:user"`

	// Snapshot of the latest subscription state, kept in sync by the
	// billing webhook so the premium gate needs a single row read.
	SubscriptionStatus SubscriptionStatus `gorm:"default:free;index"`
	StripeCustomerID   string             `gorm:"index"`

	Progress       *JourneyProgress `gorm:"foreignKey:UserID"`
	JournalEntries []JournalEntry   `gorm:"foreignKey:UserID"`
	Conversations  []AiConversation `gorm:"foreignKey:UserID"`
}
