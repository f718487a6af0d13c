package db_models

import "github.com/google/uuid"

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// AiConversation is an append-only container of chat messages, optionally
// anchored to a RELEASE step so the assistant can dispatch step guidance.
type AiConversation struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index"`
	Title      string
	StepNumber *int

	Messages []AiChatMessage `gorm:"foreignKey:ConversationID"`
}

type AiChatMessage struct {
	BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	Role           ChatRole  `gorm:"type:varchar(16)"`
	Content        string    `gorm:"type:text"`

	// Flags recorded alongside assistant replies.
	CrisisFlagged  bool `gorm:"default:false"`
	StepSuggestion *int
}
