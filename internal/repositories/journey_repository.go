package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mendpath/internal/models/db_models"
)

type JourneyRepository interface {
	GetProgressByUserId(ctx context.Context, userId uuid.UUID) (*db_models.JourneyProgress, error)
	CreateProgress(ctx context.Context, progress *db_models.JourneyProgress) (*db_models.JourneyProgress, error)
	UpdateProgress(ctx context.Context, userId uuid.UUID, currentStep int, completedSteps []byte, overallProgress int) error

	CreateEntry(ctx context.Context, entry *db_models.JournalEntry) error
	GetEntryById(ctx context.Context, id string) (*db_models.JournalEntry, error)
	ListEntriesByUser(ctx context.Context, userId uuid.UUID, stepNumber *int) ([]db_models.JournalEntry, error)
	UpdateEntryContent(ctx context.Context, id string, content string) error
}

type journeyRepository struct {
	db *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) JourneyRepository {
	return &journeyRepository{db: db}
}

func (r *journeyRepository) GetProgressByUserId(ctx context.Context, userId uuid.UUID) (*db_models.JourneyProgress, error) {
	var progress db_models.JourneyProgress
	err := r.db.WithContext(ctx).First(&progress, "user_id = ?", userId).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &progress, nil
}

// CreateProgress inserts the default row for a first-time user. The unique
// index on user_id makes concurrent first reads safe: on conflict nothing
// is written and the existing row is re-read.
func (r *journeyRepository) CreateProgress(ctx context.Context, progress *db_models.JourneyProgress) (*db_models.JourneyProgress, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(progress).Error
	if err != nil {
		return nil, err
	}

	return r.GetProgressByUserId(ctx, progress.UserID)
}

func (r *journeyRepository) UpdateProgress(ctx context.Context, userId uuid.UUID, currentStep int, completedSteps []byte, overallProgress int) error {
	return r.db.WithContext(ctx).
		Model(&db_models.JourneyProgress{}).
		Where("user_id = ?", userId).
		Updates(map[string]interface{}{
			"current_step":     currentStep,
			"completed_steps":  completedSteps,
			"overall_progress": overallProgress,
		}).Error
}

func (r *journeyRepository) CreateEntry(ctx context.Context, entry *db_models.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *journeyRepository) GetEntryById(ctx context.Context, id string) (*db_models.JournalEntry, error) {
	var entry db_models.JournalEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

func (r *journeyRepository) ListEntriesByUser(ctx context.Context, userId uuid.UUID, stepNumber *int) ([]db_models.JournalEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userId)
	if stepNumber != nil {
		query = query.Where("step_number = ?", *stepNumber)
	}

	var entries []db_models.JournalEntry
	err := query.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *journeyRepository) UpdateEntryContent(ctx context.Context, id string, content string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.JournalEntry{}).
		Where("id = ?", id).
		Update("content", content).Error
}
