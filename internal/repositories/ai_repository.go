package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mendpath/internal/models/db_models"
)

type AiRepository interface {
	CreateConversation(ctx context.Context, conversation *db_models.AiConversation) error
	GetConversationById(ctx context.Context, id string) (*db_models.AiConversation, error)
	ListConversationsByUser(ctx context.Context, userId uuid.UUID) ([]db_models.AiConversation, error)

	AppendMessage(ctx context.Context, message *db_models.AiChatMessage) error
	AppendExchange(ctx context.Context, userMsg, assistantMsg *db_models.AiChatMessage) error
	ListMessages(ctx context.Context, conversationId uuid.UUID) ([]db_models.AiChatMessage, error)
}

type aiRepository struct {
	db *gorm.DB
}

func NewAiRepository(db *gorm.DB) AiRepository {
	return &aiRepository{db: db}
}

func (r *aiRepository) CreateConversation(ctx context.Context, conversation *db_models.AiConversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *aiRepository) GetConversationById(ctx context.Context, id string) (*db_models.AiConversation, error) {
	var conversation db_models.AiConversation
	err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &conversation, nil
}

func (r *aiRepository) ListConversationsByUser(ctx context.Context, userId uuid.UUID) ([]db_models.AiConversation, error) {
	var conversations []db_models.AiConversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *aiRepository) AppendMessage(ctx context.Context, message *db_models.AiChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// AppendExchange persists the user message and the assistant reply in one
// transaction so a failed reply never leaves a dangling user turn.
func (r *aiRepository) AppendExchange(ctx context.Context, userMsg, assistantMsg *db_models.AiChatMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(assistantMsg).Error
	})
}

func (r *aiRepository) ListMessages(ctx context.Context, conversationId uuid.UUID) ([]db_models.AiChatMessage, error) {
	var messages []db_models.AiChatMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
