package repositories

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mendpath/internal/models/db_models"
	"mendpath/pkg/utils"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newSessionDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newTestDB(t,
		&db_models.GroupSession{},
		&db_models.GroupSessionParticipant{},
		&db_models.Payment{},
	)
}

func seedSession(t *testing.T, db *gorm.DB, maxParticipants int, status db_models.SessionStatus) *db_models.GroupSession {
	t.Helper()
	session := &db_models.GroupSession{
		FacilitatorID:   uuid.New(),
		Title:           "Circle",
		SessionType:     db_models.SessionFoundationCircle,
		ScheduledAt:     time.Now().Add(time.Hour).Unix(),
		EndsAt:          time.Now().Add(2 * time.Hour).Unix(),
		MaxParticipants: maxParticipants,
		Currency:        "USD",
		Status:          status,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func TestJoin_FillsToCapacityThenRejects(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	session := seedSession(t, db, 2, db_models.SessionScheduled)
	ctx := context.Background()

	if _, err := repo.Join(ctx, session.ID, uuid.New(), "Phoenix"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := repo.Join(ctx, session.ID, uuid.New(), "Willow"); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if _, err := repo.Join(ctx, session.ID, uuid.New(), "Late"); !errors.Is(err, utils.ErrSessionFull) {
		t.Fatalf("third join err = %v, want ErrSessionFull", err)
	}

	var reloaded db_models.GroupSession
	if err := db.First(&reloaded, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentParticipants != 2 {
		t.Fatalf("current_participants = %d, want 2", reloaded.CurrentParticipants)
	}
}

func TestJoin_DuplicateDoesNotBumpCounter(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	session := seedSession(t, db, 5, db_models.SessionScheduled)
	ctx := context.Background()
	userId := uuid.New()

	if _, err := repo.Join(ctx, session.ID, userId, "Phoenix"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := repo.Join(ctx, session.ID, userId, "Phoenix"); !errors.Is(err, utils.ErrAlreadyJoined) {
		t.Fatalf("duplicate err = %v, want ErrAlreadyJoined", err)
	}

	var reloaded db_models.GroupSession
	_ = db.First(&reloaded, "id = ?", session.ID).Error
	if reloaded.CurrentParticipants != 1 {
		t.Fatalf("current_participants = %d after duplicate join, want 1", reloaded.CurrentParticipants)
	}
}

func TestLeave_DecrementsAndAllowsRejoin(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	session := seedSession(t, db, 1, db_models.SessionScheduled)
	ctx := context.Background()
	userId := uuid.New()

	if err := repo.Leave(ctx, session.ID, userId); !errors.Is(err, utils.ErrNotJoined) {
		t.Fatalf("leave without join err = %v, want ErrNotJoined", err)
	}

	if _, err := repo.Join(ctx, session.ID, userId, "Phoenix"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := repo.Leave(ctx, session.ID, userId); err != nil {
		t.Fatalf("leave: %v", err)
	}

	// The slot is free again, even for the same user.
	if _, err := repo.Join(ctx, session.ID, userId, "Phoenix"); err != nil {
		t.Fatalf("rejoin after leave: %v", err)
	}
}

func TestDeleteCascade_LeavesNoOrphans(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	session := seedSession(t, db, 5, db_models.SessionScheduled)
	ctx := context.Background()

	userId := uuid.New()
	if _, err := repo.Join(ctx, session.ID, userId, "Phoenix"); err != nil {
		t.Fatalf("join: %v", err)
	}
	payment := &db_models.Payment{
		UserID:        userId,
		SessionID:     &session.ID,
		AmountMinor:   1500,
		Currency:      "USD",
		Status:        db_models.PaymentPaid,
		ProviderTxnID: "txn_1",
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := repo.DeleteCascade(ctx, session.ID.String()); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}

	var sessions, participants, payments int64
	db.Unscoped().Model(&db_models.GroupSession{}).Where("id = ?", session.ID).Count(&sessions)
	db.Unscoped().Model(&db_models.GroupSessionParticipant{}).Where("session_id = ?", session.ID).Count(&participants)
	db.Unscoped().Model(&db_models.Payment{}).Where("session_id = ?", session.ID).Count(&payments)
	if sessions != 0 || participants != 0 || payments != 0 {
		t.Fatalf("orphans after cascade: sessions=%d participants=%d payments=%d", sessions, participants, payments)
	}
}

func TestCountAttendance(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	session := seedSession(t, db, 10, db_models.SessionCompleted)
	ctx := context.Background()

	// Populate directly; Join refuses non-scheduled sessions at the
	// service layer, the repository does not care.
	var users []uuid.UUID
	for i := 0; i < 3; i++ {
		u := uuid.New()
		users = append(users, u)
		if _, err := repo.Join(ctx, session.ID, u, "Guest"); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	for _, u := range users[:2] {
		rows, err := repo.SetAttendance(ctx, session.ID, u, true)
		if err != nil || rows != 1 {
			t.Fatalf("SetAttendance rows=%d err=%v", rows, err)
		}
	}
	// Unknown user: zero rows, no error.
	if rows, err := repo.SetAttendance(ctx, session.ID, uuid.New(), true); err != nil || rows != 0 {
		t.Fatalf("unknown user rows=%d err=%v", rows, err)
	}

	counts, err := repo.CountAttendance(ctx, session.ID)
	if err != nil {
		t.Fatalf("CountAttendance: %v", err)
	}
	if counts.TotalRegistered != 3 || counts.Attended != 2 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestCountAttendanceByType(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	circle := seedSession(t, db, 10, db_models.SessionScheduled)
	workshop := seedSession(t, db, 10, db_models.SessionScheduled)
	workshop.SessionType = db_models.SessionHealingWorkshop
	if err := db.Save(workshop).Error; err != nil {
		t.Fatalf("update type: %v", err)
	}

	attendee := uuid.New()
	if _, err := repo.Join(ctx, circle.ID, attendee, "A"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := repo.Join(ctx, circle.ID, uuid.New(), "B"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := repo.Join(ctx, workshop.ID, uuid.New(), "C"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := repo.SetAttendance(ctx, circle.ID, attendee, true); err != nil {
		t.Fatalf("SetAttendance: %v", err)
	}

	counts, err := repo.CountAttendanceByType(ctx)
	if err != nil {
		t.Fatalf("CountAttendanceByType: %v", err)
	}

	byType := map[string]AttendanceCounts{}
	for _, c := range counts {
		byType[c.SessionType] = c
	}
	if c := byType["foundation_circle"]; c.TotalRegistered != 2 || c.Attended != 1 {
		t.Fatalf("foundation_circle = %+v", c)
	}
	if c := byType["healing_workshop"]; c.TotalRegistered != 1 || c.Attended != 0 {
		t.Fatalf("healing_workshop = %+v", c)
	}
}

func TestTransitionDue(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	due := seedSession(t, db, 5, db_models.SessionScheduled)
	db.Model(due).Update("scheduled_at", now.Add(-time.Minute).Unix())

	running := seedSession(t, db, 5, db_models.SessionActive)
	db.Model(running).Updates(map[string]interface{}{
		"scheduled_at": now.Add(-2 * time.Hour).Unix(),
		"ends_at":      now.Add(-time.Minute).Unix(),
	})

	future := seedSession(t, db, 5, db_models.SessionScheduled)

	changed, err := repo.TransitionDue(ctx, now)
	if err != nil {
		t.Fatalf("TransitionDue: %v", err)
	}
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}

	assertStatus := func(id uuid.UUID, want db_models.SessionStatus) {
		t.Helper()
		var s db_models.GroupSession
		if err := db.First(&s, "id = ?", id).Error; err != nil {
			t.Fatalf("reload: %v", err)
		}
		if s.Status != want {
			t.Fatalf("session %s status = %s, want %s", id, s.Status, want)
		}
	}
	assertStatus(due.ID, db_models.SessionActive)
	assertStatus(running.ID, db_models.SessionCompleted)
	assertStatus(future.ID, db_models.SessionScheduled)
}

func TestTransitionDue_IsIdempotent(t *testing.T) {
	db := newSessionDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	due := seedSession(t, db, 5, db_models.SessionScheduled)
	db.Model(due).Updates(map[string]interface{}{
		"scheduled_at": now.Add(-time.Minute).Unix(),
		"ends_at":      now.Add(time.Hour).Unix(),
	})

	if _, err := repo.TransitionDue(ctx, now); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	changed, err := repo.TransitionDue(ctx, now)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if changed != 0 {
		t.Fatalf("second sweep changed = %d, want 0", changed)
	}
}
