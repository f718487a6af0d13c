package db_models

import "github.com/google/uuid"

type NotificationType string

const (
	NotifSessionJoined     NotificationType = "session_joined"
	NotifSessionCancelled  NotificationType = "session_cancelled"
	NotifSessionReminder   NotificationType = "session_reminder"
	NotifSubscription      NotificationType = "subscription"
	NotifJourneyMilestone  NotificationType = "journey_milestone"
	NotifCommunityActivity NotificationType = "community_activity"
)

type Notification struct {
	BaseModel
	UserID  uuid.UUID        `gorm:"type:uuid;index"`
	Type    NotificationType `gorm:"type:varchar(32);index"`
	Title   string
	Message string `gorm:"type:text"`
	IsRead  bool   `gorm:"default:false"`
	IsSent  bool   `gorm:"default:false"`
}

// NotificationPreferences is a per-user singleton, lazily created with
// everything enabled and upserted on PUT.
type NotificationPreferences struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	EmailEnabled bool `gorm:"default:true"`
	InAppEnabled bool `gorm:"default:true"`

	SessionReminders  bool `gorm:"default:true"`
	JourneyMilestones bool `gorm:"default:true"`
	CommunityActivity bool `gorm:"default:true"`
	BillingUpdates    bool `gorm:"default:true"`
}

// PremiumFeatureAccess is an access log per (user, feature), not an
// entitlement source. The premium gate bumps it after letting a request
// through.
type PremiumFeatureAccess struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_feature"`
	FeatureName string    `gorm:"uniqueIndex:idx_user_feature"`

	AccessCount  int   `gorm:"default:0"`
	LastAccessAt int64 `gorm:"default:0"`
}
