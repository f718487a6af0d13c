package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/models/response_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/utils"
)

type SessionServiceInterface interface {
	CreateSession(ctx context.Context, req request_models.CreateSessionRequest) (*response_models.SessionResponse, error)
	GetSession(ctx context.Context, id string) (*response_models.SessionResponse, error)
	ListSessions(ctx context.Context) ([]response_models.SessionResponse, error)
	ListUpcomingSessions(ctx context.Context) ([]response_models.SessionResponse, error)
	UpdateSession(ctx context.Context, id string, req request_models.UpdateSessionRequest) (*response_models.SessionResponse, error)
	DeleteSession(ctx context.Context, id string) error

	JoinSession(ctx context.Context, sessionId string, userId uuid.UUID, codeName string) (*response_models.ParticipantResponse, error)
	LeaveSession(ctx context.Context, sessionId string, userId uuid.UUID) error
	SubmitFeedback(ctx context.Context, sessionId string, userId uuid.UUID, req request_models.SessionFeedbackRequest) error

	BulkUpdateAttendance(ctx context.Context, sessionId string, records []request_models.AttendanceRecord) (int, error)
	GetAttendanceReport(ctx context.Context, sessionId string) (*response_models.AttendanceReport, error)
	GetOverallAttendanceStats(ctx context.Context) ([]response_models.TypeAttendanceStats, error)

	CreateFacilitator(ctx context.Context, req request_models.CreateFacilitatorRequest) (*db_models.Facilitator, error)
	ListFacilitators(ctx context.Context) ([]db_models.Facilitator, error)
	DeactivateFacilitator(ctx context.Context, id string) error
}

type SessionService struct {
	sessionRepo     repositories.SessionRepository
	facilitatorRepo repositories.FacilitatorRepository
	notifier        NotifierInterface
}

// NotifierInterface is the slice of the notification service session
// handling needs; it keeps the dependency one-directional.
type NotifierInterface interface {
	Notify(ctx context.Context, userId uuid.UUID, notifType db_models.NotificationType, title, message string)
	NotifyParticipants(ctx context.Context, sessionId uuid.UUID, notifType db_models.NotificationType, title, message string)
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	facilitatorRepo repositories.FacilitatorRepository,
	notifier NotifierInterface,
) SessionServiceInterface {
	return &SessionService{
		sessionRepo:     sessionRepo,
		facilitatorRepo: facilitatorRepo,
		notifier:        notifier,
	}
}

// validTransitions is the session state machine: scheduled sessions go
// active or get cancelled; active sessions complete. Completed and
// cancelled are terminal.
var validTransitions = map[db_models.SessionStatus][]db_models.SessionStatus{
	db_models.SessionScheduled: {db_models.SessionActive, db_models.SessionCancelled},
	db_models.SessionActive:    {db_models.SessionCompleted},
}

func transitionAllowed(from, to db_models.SessionStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var sessionTypes = map[db_models.SessionType]bool{
	db_models.SessionFoundationCircle: true,
	db_models.SessionHealingWorkshop:  true,
	db_models.SessionDeepDive:         true,
	db_models.SessionOneOnOne:         true,
}

func (s *SessionService) CreateSession(ctx context.Context, req request_models.CreateSessionRequest) (*response_models.SessionResponse, error) {
	facilitatorId, err := uuid.Parse(req.FacilitatorID)
	if err != nil {
		return nil, utils.ErrRecordNotFound
	}

	facilitator, err := s.facilitatorRepo.GetById(ctx, facilitatorId.String())
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if facilitator == nil || !facilitator.IsActive {
		return nil, utils.ErrRecordNotFound
	}

	if !sessionTypes[db_models.SessionType(req.SessionType)] {
		return nil, utils.ErrInvalidSessionType
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	session := &db_models.GroupSession{
		FacilitatorID:   facilitatorId,
		Title:           req.Title,
		Description:     req.Description,
		SessionType:     db_models.SessionType(req.SessionType),
		ScheduledAt:     req.ScheduledAt,
		EndsAt:          req.EndsAt,
		MaxParticipants: req.MaxParticipants,
		FeeMinor:        req.FeeMinor,
		Currency:        currency,
		Status:          db_models.SessionScheduled,
		RecurrenceRule:  req.RecurrenceRule,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return toSessionResponse(session), nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*response_models.SessionResponse, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *SessionService) ListSessions(ctx context.Context) ([]response_models.SessionResponse, error) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toSessionResponses(sessions), nil
}

func (s *SessionService) ListUpcomingSessions(ctx context.Context) ([]response_models.SessionResponse, error) {
	sessions, err := s.sessionRepo.ListUpcoming(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return toSessionResponses(sessions), nil
}

func (s *SessionService) UpdateSession(ctx context.Context, id string, req request_models.UpdateSessionRequest) (*response_models.SessionResponse, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ScheduledAt != nil {
		fields["scheduled_at"] = *req.ScheduledAt
	}
	if req.EndsAt != nil {
		fields["ends_at"] = *req.EndsAt
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < session.CurrentParticipants {
			return nil, utils.ErrSessionFull
		}
		fields["max_participants"] = *req.MaxParticipants
	}

	if req.Status != nil {
		target := db_models.SessionStatus(*req.Status)
		if !transitionAllowed(session.Status, target) {
			return nil, utils.ErrInvalidTransition
		}
		fields["status"] = target

		if target == db_models.SessionCancelled && s.notifier != nil {
			s.notifier.NotifyParticipants(ctx, session.ID, db_models.NotifSessionCancelled,
				"Session cancelled",
				fmt.Sprintf("%q has been cancelled. We're sorry for the change of plans.", session.Title))
		}
	}

	if len(fields) > 0 {
		if err := s.sessionRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	updated, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(updated), nil
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.loadSession(ctx, id); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteCascade(ctx, id); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SessionService) JoinSession(ctx context.Context, sessionId string, userId uuid.UUID, codeName string) (*response_models.ParticipantResponse, error) {
	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session.Status != db_models.SessionScheduled {
		return nil, utils.ErrSessionNotOpen
	}

	participant, err := s.sessionRepo.Join(ctx, session.ID, userId, codeName)
	if err != nil {
		switch err {
		case utils.ErrSessionFull, utils.ErrAlreadyJoined:
			return nil, err
		default:
			return nil, utils.ErrDatabaseError
		}
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, userId, db_models.NotifSessionJoined,
			"You're in",
			fmt.Sprintf("You joined %q as %s.", session.Title, codeName))
	}

	return &response_models.ParticipantResponse{
		UserID:   participant.UserID,
		CodeName: participant.CodeName,
		Attended: participant.Attended,
	}, nil
}

func (s *SessionService) LeaveSession(ctx context.Context, sessionId string, userId uuid.UUID) error {
	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return err
	}
	if session.Status != db_models.SessionScheduled {
		return utils.ErrSessionNotOpen
	}

	if err := s.sessionRepo.Leave(ctx, session.ID, userId); err != nil {
		if err == utils.ErrNotJoined {
			return err
		}
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SessionService) SubmitFeedback(ctx context.Context, sessionId string, userId uuid.UUID, req request_models.SessionFeedbackRequest) error {
	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return err
	}

	if err := s.sessionRepo.SetParticipantFeedback(ctx, session.ID, userId, req.Rating, req.Comment); err != nil {
		if err == utils.ErrNotJoined {
			return err
		}
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SessionService) BulkUpdateAttendance(ctx context.Context, sessionId string, records []request_models.AttendanceRecord) (int, error) {
	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, record := range records {
		userId, err := uuid.Parse(record.UserID)
		if err != nil {
			continue
		}
		rows, err := s.sessionRepo.SetAttendance(ctx, session.ID, userId, record.Attended)
		if err != nil {
			return updated, utils.ErrDatabaseError
		}
		updated += int(rows)
	}
	return updated, nil
}

func (s *SessionService) GetAttendanceReport(ctx context.Context, sessionId string) (*response_models.AttendanceReport, error) {
	session, err := s.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	counts, err := s.sessionRepo.CountAttendance(ctx, session.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.AttendanceReport{
		SessionID:       session.ID,
		TotalRegistered: counts.TotalRegistered,
		Attended:        counts.Attended,
		NoShows:         counts.TotalRegistered - counts.Attended,
		AttendanceRate:  attendanceRate(counts.Attended, counts.TotalRegistered),
	}, nil
}

func (s *SessionService) GetOverallAttendanceStats(ctx context.Context) ([]response_models.TypeAttendanceStats, error) {
	counts, err := s.sessionRepo.CountAttendanceByType(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	stats := make([]response_models.TypeAttendanceStats, 0, len(counts))
	for _, c := range counts {
		stats = append(stats, response_models.TypeAttendanceStats{
			SessionType:     c.SessionType,
			TotalRegistered: c.TotalRegistered,
			Attended:        c.Attended,
			NoShows:         c.TotalRegistered - c.Attended,
			AttendanceRate:  attendanceRate(c.Attended, c.TotalRegistered),
		})
	}
	return stats, nil
}

func (s *SessionService) CreateFacilitator(ctx context.Context, req request_models.CreateFacilitatorRequest) (*db_models.Facilitator, error) {
	facilitator := &db_models.Facilitator{
		Name:        req.Name,
		Bio:         req.Bio,
		Specialties: req.Specialties,
		IsActive:    true,
	}
	if err := s.facilitatorRepo.Create(ctx, facilitator); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return facilitator, nil
}

func (s *SessionService) ListFacilitators(ctx context.Context) ([]db_models.Facilitator, error) {
	facilitators, err := s.facilitatorRepo.ListActive(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return facilitators, nil
}

func (s *SessionService) DeactivateFacilitator(ctx context.Context, id string) error {
	facilitator, err := s.facilitatorRepo.GetById(ctx, id)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if facilitator == nil {
		return utils.ErrRecordNotFound
	}
	if err := s.facilitatorRepo.Deactivate(ctx, id); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *SessionService) loadSession(ctx context.Context, id string) (*db_models.GroupSession, error) {
	session, err := s.sessionRepo.GetById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}
	return session, nil
}

// attendanceRate is round(100*k/n, 2); 0 when nobody registered.
func attendanceRate(attended, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*100*100) / 100
}

func toSessionResponse(session *db_models.GroupSession) *response_models.SessionResponse {
	return &response_models.SessionResponse{
		ID:                  session.ID,
		FacilitatorID:       session.FacilitatorID,
		Title:               session.Title,
		Description:         session.Description,
		SessionType:         string(session.SessionType),
		ScheduledAt:         session.ScheduledAt,
		EndsAt:              session.EndsAt,
		MaxParticipants:     session.MaxParticipants,
		CurrentParticipants: session.CurrentParticipants,
		FeeMinor:            session.FeeMinor,
		Currency:            session.Currency,
		Status:              string(session.Status),
	}
}

func toSessionResponses(sessions []db_models.GroupSession) []response_models.SessionResponse {
	out := make([]response_models.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *toSessionResponse(&sessions[i]))
	}
	return out
}
