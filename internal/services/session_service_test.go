package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/utils"
)

// ----- Fakes -----

type fakeSessionRepo struct {
	sessions     map[uuid.UUID]*db_models.GroupSession
	participants map[uuid.UUID]map[uuid.UUID]*db_models.GroupSessionParticipant

	byTypeCounts []repositories.AttendanceCounts
	deletedIDs   []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		sessions:     map[uuid.UUID]*db_models.GroupSession{},
		participants: map[uuid.UUID]map[uuid.UUID]*db_models.GroupSessionParticipant{},
	}
}

func (r *fakeSessionRepo) add(session *db_models.GroupSession) *db_models.GroupSession {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions[session.ID] = session
	r.participants[session.ID] = map[uuid.UUID]*db_models.GroupSessionParticipant{}
	return session
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *db_models.GroupSession) error {
	r.add(session)
	return nil
}

func (r *fakeSessionRepo) GetById(ctx context.Context, id string) (*db_models.GroupSession, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	return r.sessions[uid], nil
}

func (r *fakeSessionRepo) ListAll(ctx context.Context) ([]db_models.GroupSession, error) {
	var out []db_models.GroupSession
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSessionRepo) ListUpcoming(ctx context.Context) ([]db_models.GroupSession, error) {
	var out []db_models.GroupSession
	for _, s := range r.sessions {
		if s.Status == db_models.SessionScheduled {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	uid, _ := uuid.Parse(id)
	s := r.sessions[uid]
	if v, ok := fields["title"]; ok {
		s.Title = v.(string)
	}
	if v, ok := fields["max_participants"]; ok {
		s.MaxParticipants = v.(int)
	}
	if v, ok := fields["status"]; ok {
		s.Status = v.(db_models.SessionStatus)
	}
	return nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id string, status db_models.SessionStatus) error {
	uid, _ := uuid.Parse(id)
	r.sessions[uid].Status = status
	return nil
}

func (r *fakeSessionRepo) DeleteCascade(ctx context.Context, id string) error {
	uid, _ := uuid.Parse(id)
	delete(r.sessions, uid)
	delete(r.participants, uid)
	r.deletedIDs = append(r.deletedIDs, id)
	return nil
}

func (r *fakeSessionRepo) Join(ctx context.Context, sessionId, userId uuid.UUID, codeName string) (*db_models.GroupSessionParticipant, error) {
	session := r.sessions[sessionId]
	if _, dup := r.participants[sessionId][userId]; dup {
		return nil, utils.ErrAlreadyJoined
	}
	if session.CurrentParticipants >= session.MaxParticipants {
		return nil, utils.ErrSessionFull
	}
	p := &db_models.GroupSessionParticipant{
		SessionID: sessionId,
		UserID:    userId,
		CodeName:  codeName,
	}
	r.participants[sessionId][userId] = p
	session.CurrentParticipants++
	return p, nil
}

func (r *fakeSessionRepo) Leave(ctx context.Context, sessionId, userId uuid.UUID) error {
	if _, ok := r.participants[sessionId][userId]; !ok {
		return utils.ErrNotJoined
	}
	delete(r.participants[sessionId], userId)
	r.sessions[sessionId].CurrentParticipants--
	return nil
}

func (r *fakeSessionRepo) ListParticipants(ctx context.Context, sessionId uuid.UUID) ([]db_models.GroupSessionParticipant, error) {
	var out []db_models.GroupSessionParticipant
	for _, p := range r.participants[sessionId] {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeSessionRepo) SetAttendance(ctx context.Context, sessionId uuid.UUID, userId uuid.UUID, attended bool) (int64, error) {
	p, ok := r.participants[sessionId][userId]
	if !ok {
		return 0, nil
	}
	p.Attended = attended
	return 1, nil
}

func (r *fakeSessionRepo) SetParticipantFeedback(ctx context.Context, sessionId, userId uuid.UUID, rating int, comment *string) error {
	p, ok := r.participants[sessionId][userId]
	if !ok {
		return utils.ErrNotJoined
	}
	p.FeedbackRating = &rating
	p.FeedbackComment = comment
	return nil
}

func (r *fakeSessionRepo) CountAttendance(ctx context.Context, sessionId uuid.UUID) (repositories.AttendanceCounts, error) {
	counts := repositories.AttendanceCounts{}
	for _, p := range r.participants[sessionId] {
		counts.TotalRegistered++
		if p.Attended {
			counts.Attended++
		}
	}
	return counts, nil
}

func (r *fakeSessionRepo) CountAttendanceByType(ctx context.Context) ([]repositories.AttendanceCounts, error) {
	return r.byTypeCounts, nil
}

func (r *fakeSessionRepo) TransitionDue(ctx context.Context, now time.Time) (int64, error) {
	var changed int64
	for _, s := range r.sessions {
		switch {
		case s.Status == db_models.SessionScheduled && s.ScheduledAt <= now.Unix():
			s.Status = db_models.SessionActive
			changed++
		case s.Status == db_models.SessionActive && s.EndsAt <= now.Unix():
			s.Status = db_models.SessionCompleted
			changed++
		}
	}
	return changed, nil
}

type fakeFacilitatorRepo struct {
	facilitators map[string]*db_models.Facilitator
	deactivated  []string
}

func newFakeFacilitatorRepo() *fakeFacilitatorRepo {
	return &fakeFacilitatorRepo{facilitators: map[string]*db_models.Facilitator{}}
}

func (r *fakeFacilitatorRepo) Create(ctx context.Context, f *db_models.Facilitator) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.facilitators[f.ID.String()] = f
	return nil
}

func (r *fakeFacilitatorRepo) GetById(ctx context.Context, id string) (*db_models.Facilitator, error) {
	return r.facilitators[id], nil
}

func (r *fakeFacilitatorRepo) ListActive(ctx context.Context) ([]db_models.Facilitator, error) {
	var out []db_models.Facilitator
	for _, f := range r.facilitators {
		if f.IsActive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFacilitatorRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *fakeFacilitatorRepo) Deactivate(ctx context.Context, id string) error {
	r.facilitators[id].IsActive = false
	r.deactivated = append(r.deactivated, id)
	return nil
}

type recordingNotifier struct {
	notified         []uuid.UUID
	broadcastTargets []uuid.UUID
	broadcastTypes   []db_models.NotificationType
}

func (n *recordingNotifier) Notify(ctx context.Context, userId uuid.UUID, notifType db_models.NotificationType, title, message string) {
	n.notified = append(n.notified, userId)
}

func (n *recordingNotifier) NotifyParticipants(ctx context.Context, sessionId uuid.UUID, notifType db_models.NotificationType, title, message string) {
	n.broadcastTargets = append(n.broadcastTargets, sessionId)
	n.broadcastTypes = append(n.broadcastTypes, notifType)
}

// ----- Helpers -----

func newSessionFixture(t *testing.T) (*fakeSessionRepo, *fakeFacilitatorRepo, *recordingNotifier, SessionServiceInterface) {
	t.Helper()
	sessionRepo := newFakeSessionRepo()
	facilitatorRepo := newFakeFacilitatorRepo()
	notifier := &recordingNotifier{}
	svc := NewSessionService(sessionRepo, facilitatorRepo, notifier)
	return sessionRepo, facilitatorRepo, notifier, svc
}

func scheduledSession(repo *fakeSessionRepo, maxParticipants int) *db_models.GroupSession {
	return repo.add(&db_models.GroupSession{
		FacilitatorID:   uuid.New(),
		Title:           "Letting Go Circle",
		SessionType:     db_models.SessionFoundationCircle,
		ScheduledAt:     time.Now().Add(24 * time.Hour).Unix(),
		EndsAt:          time.Now().Add(25 * time.Hour).Unix(),
		MaxParticipants: maxParticipants,
		Currency:        "USD",
		Status:          db_models.SessionScheduled,
	})
}

// ----- Tests -----

func TestCreateSession_Validation(t *testing.T) {
	_, facilitatorRepo, _, svc := newSessionFixture(t)

	active := &db_models.Facilitator{Name: "Dana", IsActive: true}
	_ = facilitatorRepo.Create(context.Background(), active)
	inactive := &db_models.Facilitator{Name: "Gone", IsActive: false}
	_ = facilitatorRepo.Create(context.Background(), inactive)

	base := request_models.CreateSessionRequest{
		FacilitatorID:   active.ID.String(),
		Title:           "Workshop",
		SessionType:     "healing_workshop",
		ScheduledAt:     time.Now().Add(time.Hour).Unix(),
		EndsAt:          time.Now().Add(2 * time.Hour).Unix(),
		MaxParticipants: 10,
	}

	created, err := svc.CreateSession(context.Background(), base)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if created.Status != string(db_models.SessionScheduled) {
		t.Fatalf("status = %q, want scheduled", created.Status)
	}
	if created.Currency != "USD" {
		t.Fatalf("currency default = %q", created.Currency)
	}

	badType := base
	badType.SessionType = "seance"
	if _, err := svc.CreateSession(context.Background(), badType); !errors.Is(err, utils.ErrInvalidSessionType) {
		t.Fatalf("err = %v, want ErrInvalidSessionType", err)
	}

	withInactive := base
	withInactive.FacilitatorID = inactive.ID.String()
	if _, err := svc.CreateSession(context.Background(), withInactive); !errors.Is(err, utils.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestJoinSession_CapacityAndDuplicates(t *testing.T) {
	sessionRepo, _, notifier, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 2)

	first := uuid.New()
	if _, err := svc.JoinSession(context.Background(), session.ID.String(), first, "Phoenix"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := svc.JoinSession(context.Background(), session.ID.String(), first, "Phoenix"); !errors.Is(err, utils.ErrAlreadyJoined) {
		t.Fatalf("duplicate join err = %v, want ErrAlreadyJoined", err)
	}

	if _, err := svc.JoinSession(context.Background(), session.ID.String(), uuid.New(), "Willow"); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if _, err := svc.JoinSession(context.Background(), session.ID.String(), uuid.New(), "Latecomer"); !errors.Is(err, utils.ErrSessionFull) {
		t.Fatalf("full join err = %v, want ErrSessionFull", err)
	}

	if session.CurrentParticipants != 2 {
		t.Fatalf("participant counter = %d, want 2", session.CurrentParticipants)
	}
	if len(notifier.notified) != 2 {
		t.Fatalf("join notifications = %d, want 2", len(notifier.notified))
	}
}

func TestJoinSession_OnlyScheduledIsOpen(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 5)
	session.Status = db_models.SessionActive

	if _, err := svc.JoinSession(context.Background(), session.ID.String(), uuid.New(), "Phoenix"); !errors.Is(err, utils.ErrSessionNotOpen) {
		t.Fatalf("err = %v, want ErrSessionNotOpen", err)
	}
}

func TestLeaveSession(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 5)
	userId := uuid.New()

	if err := svc.LeaveSession(context.Background(), session.ID.String(), userId); !errors.Is(err, utils.ErrNotJoined) {
		t.Fatalf("leave before join err = %v, want ErrNotJoined", err)
	}

	if _, err := svc.JoinSession(context.Background(), session.ID.String(), userId, "Phoenix"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.LeaveSession(context.Background(), session.ID.String(), userId); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if session.CurrentParticipants != 0 {
		t.Fatalf("participant counter = %d after leave", session.CurrentParticipants)
	}
}

func TestUpdateSession_StatusTransitions(t *testing.T) {
	cases := []struct {
		name string
		from db_models.SessionStatus
		to   string
		ok   bool
	}{
		{"scheduled to active", db_models.SessionScheduled, "active", true},
		{"scheduled to cancelled", db_models.SessionScheduled, "cancelled", true},
		{"scheduled to completed", db_models.SessionScheduled, "completed", false},
		{"active to completed", db_models.SessionActive, "completed", true},
		{"active to scheduled", db_models.SessionActive, "scheduled", false},
		{"completed is terminal", db_models.SessionCompleted, "active", false},
		{"cancelled is terminal", db_models.SessionCancelled, "active", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sessionRepo, _, _, svc := newSessionFixture(t)
			session := scheduledSession(sessionRepo, 5)
			session.Status = tc.from

			_, err := svc.UpdateSession(context.Background(), session.ID.String(),
				request_models.UpdateSessionRequest{Status: &tc.to})
			if tc.ok && err != nil {
				t.Fatalf("transition %s -> %s: %v", tc.from, tc.to, err)
			}
			if !tc.ok && !errors.Is(err, utils.ErrInvalidTransition) {
				t.Fatalf("transition %s -> %s err = %v, want ErrInvalidTransition", tc.from, tc.to, err)
			}
		})
	}
}

func TestUpdateSession_CancelNotifiesParticipants(t *testing.T) {
	sessionRepo, _, notifier, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 5)

	cancelled := "cancelled"
	if _, err := svc.UpdateSession(context.Background(), session.ID.String(),
		request_models.UpdateSessionRequest{Status: &cancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if len(notifier.broadcastTargets) != 1 || notifier.broadcastTargets[0] != session.ID {
		t.Fatalf("cancel broadcast = %v", notifier.broadcastTargets)
	}
	if notifier.broadcastTypes[0] != db_models.NotifSessionCancelled {
		t.Fatalf("broadcast type = %v", notifier.broadcastTypes[0])
	}
}

func TestUpdateSession_CapacityCannotShrinkBelowJoined(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 5)
	for i := 0; i < 3; i++ {
		if _, err := svc.JoinSession(context.Background(), session.ID.String(), uuid.New(), "Guest"); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	two := 2
	if _, err := svc.UpdateSession(context.Background(), session.ID.String(),
		request_models.UpdateSessionRequest{MaxParticipants: &two}); !errors.Is(err, utils.ErrSessionFull) {
		t.Fatalf("err = %v, want ErrSessionFull", err)
	}

	four := 4
	if _, err := svc.UpdateSession(context.Background(), session.ID.String(),
		request_models.UpdateSessionRequest{MaxParticipants: &four}); err != nil {
		t.Fatalf("grow capacity: %v", err)
	}
}

func TestAttendanceReport(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 10)

	var users []uuid.UUID
	for i := 0; i < 4; i++ {
		u := uuid.New()
		users = append(users, u)
		if _, err := svc.JoinSession(context.Background(), session.ID.String(), u, "Guest"); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	records := []request_models.AttendanceRecord{
		{UserID: users[0].String(), Attended: true},
		{UserID: users[1].String(), Attended: true},
		{UserID: users[2].String(), Attended: true},
		{UserID: users[3].String(), Attended: false},
		{UserID: "not-a-uuid", Attended: true}, // skipped, not fatal
	}
	updated, err := svc.BulkUpdateAttendance(context.Background(), session.ID.String(), records)
	if err != nil {
		t.Fatalf("BulkUpdateAttendance: %v", err)
	}
	if updated != 4 {
		t.Fatalf("updated = %d, want 4", updated)
	}

	report, err := svc.GetAttendanceReport(context.Background(), session.ID.String())
	if err != nil {
		t.Fatalf("GetAttendanceReport: %v", err)
	}
	if report.TotalRegistered != 4 || report.Attended != 3 || report.NoShows != 1 {
		t.Fatalf("report counts = %+v", report)
	}
	if report.AttendanceRate != 75.0 {
		t.Fatalf("attendance rate = %v, want 75", report.AttendanceRate)
	}
}

func TestAttendanceRate(t *testing.T) {
	cases := []struct {
		attended, total int64
		want            float64
	}{
		{0, 0, 0}, // nobody registered: rate is zero, not NaN
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33.33},
		{2, 3, 66.67},
	}
	for _, tc := range cases {
		if got := attendanceRate(tc.attended, tc.total); got != tc.want {
			t.Errorf("attendanceRate(%d, %d) = %v, want %v", tc.attended, tc.total, got, tc.want)
		}
	}
}

func TestGetOverallAttendanceStats(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	sessionRepo.byTypeCounts = []repositories.AttendanceCounts{
		{SessionType: "foundation_circle", TotalRegistered: 10, Attended: 8},
		{SessionType: "deep_dive", TotalRegistered: 0, Attended: 0},
	}

	stats, err := svc.GetOverallAttendanceStats(context.Background())
	if err != nil {
		t.Fatalf("GetOverallAttendanceStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %d", len(stats))
	}
	if stats[0].AttendanceRate != 80.0 || stats[0].NoShows != 2 {
		t.Fatalf("foundation_circle stats = %+v", stats[0])
	}
	if stats[1].AttendanceRate != 0 {
		t.Fatalf("empty type rate = %v, want 0", stats[1].AttendanceRate)
	}
}

func TestDeleteSession_Cascades(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 5)
	if _, err := svc.JoinSession(context.Background(), session.ID.String(), uuid.New(), "Guest"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := svc.DeleteSession(context.Background(), session.ID.String()); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, ok := sessionRepo.sessions[session.ID]; ok {
		t.Fatal("session still present")
	}
	if _, ok := sessionRepo.participants[session.ID]; ok {
		t.Fatal("participants orphaned after delete")
	}

	if err := svc.DeleteSession(context.Background(), session.ID.String()); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Fatalf("second delete err = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitFeedback_RequiresParticipation(t *testing.T) {
	sessionRepo, _, _, svc := newSessionFixture(t)
	session := scheduledSession(sessionRepo, 5)
	userId := uuid.New()

	req := request_models.SessionFeedbackRequest{Rating: 5}
	if err := svc.SubmitFeedback(context.Background(), session.ID.String(), userId, req); !errors.Is(err, utils.ErrNotJoined) {
		t.Fatalf("err = %v, want ErrNotJoined", err)
	}

	if _, err := svc.JoinSession(context.Background(), session.ID.String(), userId, "Guest"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := svc.SubmitFeedback(context.Background(), session.ID.String(), userId, req); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if got := sessionRepo.participants[session.ID][userId].FeedbackRating; got == nil || *got != 5 {
		t.Fatalf("rating not stored: %v", got)
	}
}

func TestDeactivateFacilitator(t *testing.T) {
	_, facilitatorRepo, _, svc := newSessionFixture(t)

	created, err := svc.CreateFacilitator(context.Background(), request_models.CreateFacilitatorRequest{Name: "Dana"})
	if err != nil {
		t.Fatalf("CreateFacilitator: %v", err)
	}

	if err := svc.DeactivateFacilitator(context.Background(), created.ID.String()); err != nil {
		t.Fatalf("DeactivateFacilitator: %v", err)
	}
	if facilitatorRepo.facilitators[created.ID.String()].IsActive {
		t.Fatal("facilitator still active")
	}

	active, err := svc.ListFacilitators(context.Background())
	if err != nil {
		t.Fatalf("ListFacilitators: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active facilitators = %d, want 0", len(active))
	}

	if err := svc.DeactivateFacilitator(context.Background(), uuid.NewString()); !errors.Is(err, utils.ErrRecordNotFound) {
		t.Fatalf("missing facilitator err = %v, want ErrRecordNotFound", err)
	}
}
