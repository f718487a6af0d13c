package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/utils"
)

type fakeNotificationRepo struct {
	created []db_models.Notification
	prefs   map[uuid.UUID]*db_models.NotificationPreferences

	createErr   error
	markedRead  []string
	markReadRow int64
	allReadFor  []uuid.UUID
	upserts     int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{prefs: map[uuid.UUID]*db_models.NotificationPreferences{}}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *db_models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userId uuid.UUID, unreadOnly bool) ([]db_models.Notification, error) {
	var out []db_models.Notification
	for _, n := range r.created {
		if n.UserID != userId {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string, userId uuid.UUID) (int64, error) {
	r.markedRead = append(r.markedRead, id)
	return r.markReadRow, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	r.allReadFor = append(r.allReadFor, userId)
	return nil
}

func (r *fakeNotificationRepo) GetPreferences(ctx context.Context, userId uuid.UUID) (*db_models.NotificationPreferences, error) {
	p, ok := r.prefs[userId]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeNotificationRepo) UpsertPreferences(ctx context.Context, prefs *db_models.NotificationPreferences) error {
	r.upserts++
	copied := *prefs
	r.prefs[prefs.UserID] = &copied
	return nil
}

func (r *fakeNotificationRepo) BumpFeatureAccess(ctx context.Context, userId uuid.UUID, featureName string, now int64) error {
	return nil
}

var _ repositories.NotificationRepository = (*fakeNotificationRepo)(nil)

func TestNotify_SwallowsInsertFailure(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.createErr = errors.New("insert failed")
	svc := NewNotificationService(repo, newFakeSessionRepo())

	// Must not panic or surface the error to the caller.
	svc.Notify(context.Background(), uuid.New(), db_models.NotifSessionReminder, "Reminder", "Session starts soon")

	if len(repo.created) != 0 {
		t.Fatalf("expected no stored notifications, got %d", len(repo.created))
	}
}

func TestNotifyParticipants_FansOut(t *testing.T) {
	repo := newFakeNotificationRepo()
	sessions := newFakeSessionRepo()
	svc := NewNotificationService(repo, sessions)

	session := scheduledSession(sessions, 10)
	for i := 0; i < 3; i++ {
		uid := uuid.New()
		sessions.participants[session.ID][uid] = &db_models.GroupSessionParticipant{
			SessionID: session.ID,
			UserID:    uid,
		}
	}

	svc.NotifyParticipants(context.Background(), session.ID, db_models.NotifSessionCancelled, "Cancelled", "The session was cancelled")

	if len(repo.created) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(repo.created))
	}
	for _, n := range repo.created {
		if n.Type != db_models.NotifSessionCancelled {
			t.Errorf("notification type = %q, want %q", n.Type, db_models.NotifSessionCancelled)
		}
	}
}

func TestMarkRead_UnknownIdIsNotFound(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, newFakeSessionRepo())

	err := svc.MarkRead(context.Background(), uuid.New(), uuid.NewString())
	if !errors.Is(err, utils.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	repo.markReadRow = 1
	if err := svc.MarkRead(context.Background(), uuid.New(), uuid.NewString()); err != nil {
		t.Fatalf("expected nil after matching row, got %v", err)
	}
}

func TestGetPreferences_LazilyCreatesDefaults(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, newFakeSessionRepo())
	userId := uuid.New()

	prefs, err := svc.GetPreferences(context.Background(), userId)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	if !prefs.EmailEnabled || !prefs.InAppEnabled || !prefs.SessionReminders ||
		!prefs.JourneyMilestones || !prefs.CommunityActivity || !prefs.BillingUpdates {
		t.Fatalf("expected all defaults enabled, got %+v", prefs)
	}
	if repo.upserts != 1 {
		t.Fatalf("expected 1 upsert on first read, got %d", repo.upserts)
	}

	if _, err := svc.GetPreferences(context.Background(), userId); err != nil {
		t.Fatalf("second GetPreferences: %v", err)
	}
	if repo.upserts != 1 {
		t.Fatalf("expected no extra upsert on second read, got %d", repo.upserts)
	}
}

func TestUpdatePreferences_PartialPatch(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, newFakeSessionRepo())
	userId := uuid.New()

	off := false
	prefs, err := svc.UpdatePreferences(context.Background(), userId, request_models.UpdatePreferencesRequest{
		SessionReminders: &off,
	})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}

	if prefs.SessionReminders {
		t.Error("SessionReminders should be disabled")
	}
	// Untouched fields keep their defaults.
	if !prefs.EmailEnabled || !prefs.JourneyMilestones || !prefs.BillingUpdates {
		t.Errorf("unset fields were modified: %+v", prefs)
	}

	stored, _ := repo.GetPreferences(context.Background(), userId)
	if stored.SessionReminders {
		t.Error("patched value not persisted")
	}
}
