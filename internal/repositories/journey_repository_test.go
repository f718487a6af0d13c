package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mendpath/internal/models/db_models"
)

func newJourneyDB(t *testing.T) (*gorm.DB, JourneyRepository) {
	t.Helper()
	db := newTestDB(t, &db_models.JourneyProgress{}, &db_models.JournalEntry{})
	return db, NewJourneyRepository(db)
}

func TestCreateProgress_ConflictReturnsExistingRow(t *testing.T) {
	db, repo := newJourneyDB(t)
	ctx := context.Background()
	userId := uuid.New()

	first, err := repo.CreateProgress(ctx, &db_models.JourneyProgress{
		UserID:         userId,
		CurrentStep:    1,
		CompletedSteps: []byte("[]"),
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	// A concurrent first request would race to the same insert; the
	// second create must not error and must hand back the original row.
	second, err := repo.CreateProgress(ctx, &db_models.JourneyProgress{
		UserID:         userId,
		CurrentStep:    1,
		CompletedSteps: []byte("[]"),
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("conflict create returned a different row: %s vs %s", second.ID, first.ID)
	}

	var rows int64
	db.Model(&db_models.JourneyProgress{}).Where("user_id = ?", userId).Count(&rows)
	if rows != 1 {
		t.Fatalf("progress rows = %d, want 1", rows)
	}
}

func TestUpdateProgress_Roundtrip(t *testing.T) {
	_, repo := newJourneyDB(t)
	ctx := context.Background()
	userId := uuid.New()

	if _, err := repo.CreateProgress(ctx, &db_models.JourneyProgress{
		UserID:         userId,
		CurrentStep:    1,
		CompletedSteps: []byte("[]"),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateProgress(ctx, userId, 3, []byte("[1,2]"), 29); err != nil {
		t.Fatalf("update: %v", err)
	}

	progress, err := repo.GetProgressByUserId(ctx, userId)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if progress.CurrentStep != 3 || progress.OverallProgress != 29 {
		t.Fatalf("progress = %+v", progress)
	}
	if string(progress.CompletedSteps) != "[1,2]" {
		t.Fatalf("completed steps = %s", progress.CompletedSteps)
	}
}

func TestGetProgressByUserId_MissingIsNilNil(t *testing.T) {
	_, repo := newJourneyDB(t)

	progress, err := repo.GetProgressByUserId(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if progress != nil {
		t.Fatalf("progress = %+v, want nil", progress)
	}
}
