package services

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/google/uuid"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/models/response_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/release"
	"mendpath/pkg/utils"
)

type JourneyServiceInterface interface {
	// GetProgress returns the user's progress row, creating the default
	// step-1 row on first access.
	GetProgress(ctx context.Context, userId uuid.UUID) (*response_models.ProgressResponse, error)

	// UpdateProgress validates the step numbers and derives the overall
	// percentage server-side before persisting.
	UpdateProgress(ctx context.Context, userId uuid.UUID, req request_models.UpdateProgressRequest) (*response_models.ProgressResponse, error)

	GetSteps() []release.Step

	CreateEntry(ctx context.Context, userId uuid.UUID, req request_models.CreateJournalEntryRequest) (*response_models.JournalEntryResponse, error)
	ListEntries(ctx context.Context, userId uuid.UUID, stepNumber *int) ([]response_models.JournalEntryResponse, error)
	UpdateEntry(ctx context.Context, userId uuid.UUID, entryId string, content string) error
}

type JourneyService struct {
	journeyRepo repositories.JourneyRepository
}

func NewJourneyService(journeyRepo repositories.JourneyRepository) JourneyServiceInterface {
	return &JourneyService{
		journeyRepo: journeyRepo,
	}
}

func (s *JourneyService) GetProgress(ctx context.Context, userId uuid.UUID) (*response_models.ProgressResponse, error) {
	progress, err := s.journeyRepo.GetProgressByUserId(ctx, userId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if progress == nil {
		progress, err = s.journeyRepo.CreateProgress(ctx, &db_models.JourneyProgress{
			UserID:          userId,
			CurrentStep:     1,
			CompletedSteps:  []byte("[]"),
			OverallProgress: 0,
		})
		if err != nil || progress == nil {
			return nil, utils.ErrDatabaseError
		}
	}

	return toProgressResponse(progress), nil
}

func (s *JourneyService) UpdateProgress(ctx context.Context, userId uuid.UUID, req request_models.UpdateProgressRequest) (*response_models.ProgressResponse, error) {
	if !release.ValidStep(req.CurrentStep) {
		return nil, utils.ErrInvalidStep
	}

	steps, ok := normalizeSteps(req.CompletedSteps)
	if !ok {
		return nil, utils.ErrInvalidSteps
	}

	overall := deriveOverallProgress(len(steps))

	encoded, err := json.Marshal(steps)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	// Make sure the row exists; first write may precede the first read.
	if _, err := s.GetProgress(ctx, userId); err != nil {
		return nil, err
	}

	if err := s.journeyRepo.UpdateProgress(ctx, userId, req.CurrentStep, encoded, overall); err != nil {
		return nil, utils.ErrDatabaseError
	}

	updated, err := s.journeyRepo.GetProgressByUserId(ctx, userId)
	if err != nil || updated == nil {
		return nil, utils.ErrDatabaseError
	}

	return toProgressResponse(updated), nil
}

func (s *JourneyService) GetSteps() []release.Step {
	return release.All()
}

func (s *JourneyService) CreateEntry(ctx context.Context, userId uuid.UUID, req request_models.CreateJournalEntryRequest) (*response_models.JournalEntryResponse, error) {
	if !release.ValidStep(req.StepNumber) {
		return nil, utils.ErrInvalidStep
	}

	entry := &db_models.JournalEntry{
		UserID:     userId,
		StepNumber: req.StepNumber,
		Prompt:     req.Prompt,
		Content:    req.Content,
	}
	if err := s.journeyRepo.CreateEntry(ctx, entry); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return toEntryResponse(entry), nil
}

func (s *JourneyService) ListEntries(ctx context.Context, userId uuid.UUID, stepNumber *int) ([]response_models.JournalEntryResponse, error) {
	if stepNumber != nil && !release.ValidStep(*stepNumber) {
		return nil, utils.ErrInvalidStep
	}

	entries, err := s.journeyRepo.ListEntriesByUser(ctx, userId, stepNumber)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.JournalEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *toEntryResponse(&entries[i]))
	}
	return out, nil
}

func (s *JourneyService) UpdateEntry(ctx context.Context, userId uuid.UUID, entryId string, content string) error {
	entry, err := s.journeyRepo.GetEntryById(ctx, entryId)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if entry == nil {
		return utils.ErrEntryNotFound
	}
	if entry.UserID != userId {
		return utils.ErrNotEntryOwner
	}

	if err := s.journeyRepo.UpdateEntryContent(ctx, entryId, content); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// normalizeSteps dedupes and sorts the completed step numbers, rejecting
// anything outside 1..7.
func normalizeSteps(steps []int) ([]int, bool) {
	seen := make(map[int]bool, len(steps))
	out := make([]int, 0, len(steps))
	for _, n := range steps {
		if !release.ValidStep(n) {
			return nil, false
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, true
}

func deriveOverallProgress(completed int) int {
	return int(math.Round(float64(completed) / float64(release.StepCount) * 100))
}

func toProgressResponse(p *db_models.JourneyProgress) *response_models.ProgressResponse {
	var steps []int
	if err := json.Unmarshal(p.CompletedSteps, &steps); err != nil {
		steps = nil
	}
	if steps == nil {
		steps = []int{}
	}

	return &response_models.ProgressResponse{
		UserID:          p.UserID,
		CurrentStep:     p.CurrentStep,
		CompletedSteps:  steps,
		OverallProgress: p.OverallProgress,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toEntryResponse(e *db_models.JournalEntry) *response_models.JournalEntryResponse {
	return &response_models.JournalEntryResponse{
		ID:         e.ID,
		StepNumber: e.StepNumber,
		Prompt:     e.Prompt,
		Content:    e.Content,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
