package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mendpath/internal/models/db_models"
	"mendpath/pkg/utils"
)

// AttendanceCounts is the raw aggregate a report is built from.
type AttendanceCounts struct {
	SessionType     string
	TotalRegistered int64
	Attended        int64
}

type SessionRepository interface {
	Create(ctx context.Context, session *db_models.GroupSession) error
	GetById(ctx context.Context, id string) (*db_models.GroupSession, error)
	ListAll(ctx context.Context) ([]db_models.GroupSession, error)
	ListUpcoming(ctx context.Context) ([]db_models.GroupSession, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id string, status db_models.SessionStatus) error

	// DeleteCascade removes participants and payments together with the
	// session row in one transaction.
	DeleteCascade(ctx context.Context, id string) error

	// Join inserts a participant and bumps the counter atomically; it
	// fails with utils.ErrSessionFull when the session is at capacity and
	// utils.ErrAlreadyJoined on a duplicate join.
	Join(ctx context.Context, sessionId, userId uuid.UUID, codeName string) (*db_models.GroupSessionParticipant, error)
	Leave(ctx context.Context, sessionId, userId uuid.UUID) error

	ListParticipants(ctx context.Context, sessionId uuid.UUID) ([]db_models.GroupSessionParticipant, error)
	SetAttendance(ctx context.Context, sessionId uuid.UUID, userId uuid.UUID, attended bool) (int64, error)
	SetParticipantFeedback(ctx context.Context, sessionId, userId uuid.UUID, rating int, comment *string) error

	CountAttendance(ctx context.Context, sessionId uuid.UUID) (AttendanceCounts, error)
	CountAttendanceByType(ctx context.Context) ([]AttendanceCounts, error)

	// TransitionDue flips scheduled sessions past their start to active
	// and active sessions past their end to completed. Returns the number
	// of rows changed.
	TransitionDue(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *db_models.GroupSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetById(ctx context.Context, id string) (*db_models.GroupSession, error) {
	var session db_models.GroupSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepository) ListAll(ctx context.Context) ([]db_models.GroupSession, error) {
	var sessions []db_models.GroupSession
	err := r.db.WithContext(ctx).
		Order("scheduled_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) ListUpcoming(ctx context.Context) ([]db_models.GroupSession, error) {
	var sessions []db_models.GroupSession
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at >= ?", db_models.SessionScheduled, time.Now().Unix()).
		Order("scheduled_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&db_models.GroupSession{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id string, status db_models.SessionStatus) error {
	return r.db.WithContext(ctx).
		Model(&db_models.GroupSession{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *sessionRepository) DeleteCascade(ctx context.Context, id string) error {
	// Hard delete: a removed session must leave no participant or payment
	// rows behind, and soft-deleted leftovers would still trip the unique
	// (session_id, user_id) index.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("session_id = ?", id).
			Delete(&db_models.GroupSessionParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("session_id = ?", id).
			Delete(&db_models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("id = ?", id).
			Delete(&db_models.GroupSession{}).Error
	})
}

func (r *sessionRepository) Join(ctx context.Context, sessionId, userId uuid.UUID, codeName string) (*db_models.GroupSessionParticipant, error) {
	var participant *db_models.GroupSessionParticipant

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&db_models.GroupSessionParticipant{}).
			Where("session_id = ? AND user_id = ?", sessionId, userId).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return utils.ErrAlreadyJoined
		}

		// Conditional increment doubles as the capacity check: zero rows
		// affected means the session is already full.
		res := tx.Model(&db_models.GroupSession{}).
			Where("id = ? AND current_participants < max_participants", sessionId).
			Update("current_participants", gorm.Expr("current_participants + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrSessionFull
		}

		participant = &db_models.GroupSessionParticipant{
			SessionID: sessionId,
			UserID:    userId,
			CodeName:  codeName,
		}
		return tx.Create(participant).Error
	})
	if err != nil {
		return nil, err
	}

	return participant, nil
}

func (r *sessionRepository) Leave(ctx context.Context, sessionId, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("session_id = ? AND user_id = ?", sessionId, userId).
			Delete(&db_models.GroupSessionParticipant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotJoined
		}

		return tx.Model(&db_models.GroupSession{}).
			Where("id = ? AND current_participants > 0", sessionId).
			Update("current_participants", gorm.Expr("current_participants - 1")).Error
	})
}

func (r *sessionRepository) ListParticipants(ctx context.Context, sessionId uuid.UUID) ([]db_models.GroupSessionParticipant, error) {
	var participants []db_models.GroupSessionParticipant
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *sessionRepository) SetAttendance(ctx context.Context, sessionId uuid.UUID, userId uuid.UUID, attended bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.GroupSessionParticipant{}).
		Where("session_id = ? AND user_id = ?", sessionId, userId).
		Update("attended", attended)
	return res.RowsAffected, res.Error
}

func (r *sessionRepository) SetParticipantFeedback(ctx context.Context, sessionId, userId uuid.UUID, rating int, comment *string) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.GroupSessionParticipant{}).
		Where("session_id = ? AND user_id = ?", sessionId, userId).
		Updates(map[string]interface{}{
			"feedback_rating":  rating,
			"feedback_comment": comment,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotJoined
	}
	return nil
}

func (r *sessionRepository) CountAttendance(ctx context.Context, sessionId uuid.UUID) (AttendanceCounts, error) {
	var counts AttendanceCounts
	err := r.db.WithContext(ctx).
		Model(&db_models.GroupSessionParticipant{}).
		Select("COUNT(*) AS total_registered, SUM(CASE WHEN attended THEN 1 ELSE 0 END) AS attended").
		Where("session_id = ?", sessionId).
		Scan(&counts).Error
	return counts, err
}

func (r *sessionRepository) CountAttendanceByType(ctx context.Context) ([]AttendanceCounts, error) {
	var counts []AttendanceCounts
	err := r.db.WithContext(ctx).
		Model(&db_models.GroupSessionParticipant{}).
		Select("group_sessions.session_type AS session_type, COUNT(*) AS total_registered, SUM(CASE WHEN group_session_participants.attended THEN 1 ELSE 0 END) AS attended").
		Joins("JOIN group_sessions ON group_sessions.id = group_session_participants.session_id").
		Group("group_sessions.session_type").
		Scan(&counts).Error
	return counts, err
}

func (r *sessionRepository) TransitionDue(ctx context.Context, now time.Time) (int64, error) {
	var changed int64

	res := r.db.WithContext(ctx).
		Model(&db_models.GroupSession{}).
		Where("status = ? AND scheduled_at <= ?", db_models.SessionScheduled, now.Unix()).
		Update("status", db_models.SessionActive)
	if res.Error != nil {
		return changed, res.Error
	}
	changed += res.RowsAffected

	res = r.db.WithContext(ctx).
		Model(&db_models.GroupSession{}).
		Where("status = ? AND ends_at <= ?", db_models.SessionActive, now.Unix()).
		Update("status", db_models.SessionCompleted)
	if res.Error != nil {
		return changed, res.Error
	}
	changed += res.RowsAffected

	return changed, nil
}
