package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mendpath/internal/models/db_models"
)

type FacilitatorRepository interface {
	Create(ctx context.Context, facilitator *db_models.Facilitator) error
	GetById(ctx context.Context, id string) (*db_models.Facilitator, error)
	ListActive(ctx context.Context) ([]db_models.Facilitator, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	// Deactivate soft-deletes by flipping is_active; past sessions keep
	// referencing the row.
	Deactivate(ctx context.Context, id string) error
}

type facilitatorRepository struct {
	db *gorm.DB
}

func NewFacilitatorRepository(db *gorm.DB) FacilitatorRepository {
	return &facilitatorRepository{db: db}
}

func (r *facilitatorRepository) Create(ctx context.Context, facilitator *db_models.Facilitator) error {
	return r.db.WithContext(ctx).Create(facilitator).Error
}

func (r *facilitatorRepository) GetById(ctx context.Context, id string) (*db_models.Facilitator, error) {
	var facilitator db_models.Facilitator
	err := r.db.WithContext(ctx).First(&facilitator, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &facilitator, nil
}

func (r *facilitatorRepository) ListActive(ctx context.Context) ([]db_models.Facilitator, error) {
	var facilitators []db_models.Facilitator
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&facilitators).Error
	return facilitators, err
}

func (r *facilitatorRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Facilitator{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *facilitatorRepository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Facilitator{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
