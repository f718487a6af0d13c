package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/pkg/utils"
)

// ----- Fake repo -----

type fakeJourneyRepo struct {
	progress map[uuid.UUID]*db_models.JourneyProgress
	entries  map[string]*db_models.JournalEntry

	createProgressCalls int
	getErr              error
	updateErr           error
}

func newFakeJourneyRepo() *fakeJourneyRepo {
	return &fakeJourneyRepo{
		progress: map[uuid.UUID]*db_models.JourneyProgress{},
		entries:  map[string]*db_models.JournalEntry{},
	}
}

func (r *fakeJourneyRepo) GetProgressByUserId(ctx context.Context, userId uuid.UUID) (*db_models.JourneyProgress, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.progress[userId], nil
}

func (r *fakeJourneyRepo) CreateProgress(ctx context.Context, p *db_models.JourneyProgress) (*db_models.JourneyProgress, error) {
	r.createProgressCalls++
	if existing, ok := r.progress[p.UserID]; ok {
		// mirrors the ON CONFLICT DO NOTHING + re-read behavior
		return existing, nil
	}
	r.progress[p.UserID] = p
	return p, nil
}

func (r *fakeJourneyRepo) UpdateProgress(ctx context.Context, userId uuid.UUID, currentStep int, completedSteps []byte, overallProgress int) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	p := r.progress[userId]
	p.CurrentStep = currentStep
	p.CompletedSteps = completedSteps
	p.OverallProgress = overallProgress
	return nil
}

func (r *fakeJourneyRepo) CreateEntry(ctx context.Context, entry *db_models.JournalEntry) error {
	entry.ID = uuid.New()
	r.entries[entry.ID.String()] = entry
	return nil
}

func (r *fakeJourneyRepo) GetEntryById(ctx context.Context, id string) (*db_models.JournalEntry, error) {
	return r.entries[id], nil
}

func (r *fakeJourneyRepo) ListEntriesByUser(ctx context.Context, userId uuid.UUID, stepNumber *int) ([]db_models.JournalEntry, error) {
	var out []db_models.JournalEntry
	for _, e := range r.entries {
		if e.UserID != userId {
			continue
		}
		if stepNumber != nil && e.StepNumber != *stepNumber {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *fakeJourneyRepo) UpdateEntryContent(ctx context.Context, id string, content string) error {
	r.entries[id].Content = content
	return nil
}

// ----- Tests -----

func TestGetProgress_LazyInit(t *testing.T) {
	repo := newFakeJourneyRepo()
	svc := NewJourneyService(repo)
	userId := uuid.New()

	p, err := svc.GetProgress(context.Background(), userId)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if p.CurrentStep != 1 || p.OverallProgress != 0 || len(p.CompletedSteps) != 0 {
		t.Fatalf("default progress wrong: %+v", p)
	}

	// Second read must not create another row.
	if _, err := svc.GetProgress(context.Background(), userId); err != nil {
		t.Fatalf("second GetProgress: %v", err)
	}
	if repo.createProgressCalls != 1 {
		t.Fatalf("createProgressCalls = %d, want 1", repo.createProgressCalls)
	}
}

func TestUpdateProgress_RejectsInvalidSteps(t *testing.T) {
	svc := NewJourneyService(newFakeJourneyRepo())
	userId := uuid.New()

	cases := []struct {
		name string
		req  request_models.UpdateProgressRequest
		want error
	}{
		{"current step zero", request_models.UpdateProgressRequest{CurrentStep: 0}, utils.ErrInvalidStep},
		{"current step eight", request_models.UpdateProgressRequest{CurrentStep: 8}, utils.ErrInvalidStep},
		{"completed step out of range", request_models.UpdateProgressRequest{CurrentStep: 2, CompletedSteps: []int{1, 9}}, utils.ErrInvalidSteps},
		{"negative completed step", request_models.UpdateProgressRequest{CurrentStep: 2, CompletedSteps: []int{-1}}, utils.ErrInvalidSteps},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpdateProgress(context.Background(), userId, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUpdateProgress_DerivesOverallProgress(t *testing.T) {
	repo := newFakeJourneyRepo()
	svc := NewJourneyService(repo)
	userId := uuid.New()

	p, err := svc.UpdateProgress(context.Background(), userId, request_models.UpdateProgressRequest{
		CurrentStep:    4,
		CompletedSteps: []int{3, 1, 2, 3}, // duplicate and out of order on purpose
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	if got := p.CompletedSteps; len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("completed steps not normalized: %v", got)
	}
	// 3 of 7 steps, rounded.
	if p.OverallProgress != 43 {
		t.Fatalf("overall progress = %d, want 43", p.OverallProgress)
	}
	if p.CurrentStep != 4 {
		t.Fatalf("current step = %d", p.CurrentStep)
	}
}

func TestDeriveOverallProgress(t *testing.T) {
	cases := map[int]int{0: 0, 1: 14, 2: 29, 3: 43, 4: 57, 5: 71, 6: 86, 7: 100}
	for completed, want := range cases {
		if got := deriveOverallProgress(completed); got != want {
			t.Errorf("deriveOverallProgress(%d) = %d, want %d", completed, got, want)
		}
	}
}

func TestCreateEntry_ValidatesStep(t *testing.T) {
	svc := NewJourneyService(newFakeJourneyRepo())

	_, err := svc.CreateEntry(context.Background(), uuid.New(), request_models.CreateJournalEntryRequest{
		StepNumber: 9,
		Content:    "text",
	})
	if !errors.Is(err, utils.ErrInvalidStep) {
		t.Fatalf("err = %v, want ErrInvalidStep", err)
	}
}

func TestUpdateEntry_OwnerCheck(t *testing.T) {
	repo := newFakeJourneyRepo()
	svc := NewJourneyService(repo)
	owner := uuid.New()

	created, err := svc.CreateEntry(context.Background(), owner, request_models.CreateJournalEntryRequest{
		StepNumber: 2,
		Content:    "first draft",
	})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if err := svc.UpdateEntry(context.Background(), uuid.New(), created.ID.String(), "stolen"); !errors.Is(err, utils.ErrNotEntryOwner) {
		t.Fatalf("err = %v, want ErrNotEntryOwner", err)
	}
	if err := svc.UpdateEntry(context.Background(), owner, created.ID.String(), "second draft"); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if got := repo.entries[created.ID.String()].Content; got != "second draft" {
		t.Fatalf("content = %q", got)
	}

	if err := svc.UpdateEntry(context.Background(), owner, uuid.NewString(), "x"); !errors.Is(err, utils.ErrEntryNotFound) {
		t.Fatalf("err = %v, want ErrEntryNotFound", err)
	}
}

func TestListEntries_StepFilter(t *testing.T) {
	repo := newFakeJourneyRepo()
	svc := NewJourneyService(repo)
	userId := uuid.New()

	for _, step := range []int{1, 1, 3} {
		if _, err := svc.CreateEntry(context.Background(), userId, request_models.CreateJournalEntryRequest{
			StepNumber: step,
			Content:    "entry",
		}); err != nil {
			t.Fatalf("CreateEntry: %v", err)
		}
	}

	step := 1
	entries, err := svc.ListEntries(context.Background(), userId, &step)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	bad := 0
	if _, err := svc.ListEntries(context.Background(), userId, &bad); !errors.Is(err, utils.ErrInvalidStep) {
		t.Fatalf("err = %v, want ErrInvalidStep", err)
	}
}
