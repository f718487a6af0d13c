package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mendpath/internal/models/request_models"
	"mendpath/internal/services"
	"mendpath/pkg/utils"
)

type JourneyController struct {
	journeyService services.JourneyServiceInterface
}

func NewJourneyController(journeyService services.JourneyServiceInterface) *JourneyController {
	return &JourneyController{
		journeyService: journeyService,
	}
}

// GetSteps godoc
// @Summary List the seven steps of the journey
// @Tags Journey
// @Produce json
// @Success 200 {array} release.Step
// @Router /journey/steps [get]
func (j *JourneyController) GetSteps(c *gin.Context) {
	utils.RespondSuccess(c, j.journeyService.GetSteps(), "Steps fetched successfully")
}

// GetProgress godoc
// @Summary Get the authenticated user's journey progress
// @Description Returns the progress record, creating a fresh step-1 record on first access
// @Tags Journey
// @Produce json
// @Success 200 {object} response_models.ProgressResponse
// @Security BearerAuth
// @Router /journey/progress [get]
func (j *JourneyController) GetProgress(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	progress, err := j.journeyService.GetProgress(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, progress, "Progress fetched successfully")
}

// UpdateProgress godoc
// @Summary Update journey progress
// @Description Sets the current step and completed steps. The overall percentage is derived server-side.
// @Tags Journey
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProgressRequest true "Current step and completed steps"
// @Success 200 {object} response_models.ProgressResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journey/progress [post]
func (j *JourneyController) UpdateProgress(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "current_step is required")
		return
	}

	progress, err := j.journeyService.UpdateProgress(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, progress, "Progress updated successfully")
}

// CreateEntry godoc
// @Summary Create a journal entry
// @Tags Journey
// @Accept json
// @Produce json
// @Param request body request_models.CreateJournalEntryRequest true "Step number, prompt and content"
// @Success 201 {object} response_models.JournalEntryResponse
// @Security BearerAuth
// @Router /journal/entries [post]
func (j *JourneyController) CreateEntry(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "step_number and content are required")
		return
	}

	entry, err := j.journeyService.CreateEntry(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, entry, "Journal entry created successfully")
}

// ListEntries godoc
// @Summary List the user's journal entries
// @Tags Journey
// @Produce json
// @Param step query int false "Filter by step number (1-7)"
// @Success 200 {array} response_models.JournalEntryResponse
// @Security BearerAuth
// @Router /journal/entries [get]
func (j *JourneyController) ListEntries(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var stepFilter *int
	if raw := c.Query("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "step must be a number")
			return
		}
		stepFilter = &step
	}

	entries, err := j.journeyService.ListEntries(c.Request.Context(), userId, stepFilter)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entries, "Journal entries fetched successfully")
}

// UpdateEntry godoc
// @Summary Edit a journal entry
// @Description Only the entry's owner may edit it
// @Tags Journey
// @Accept json
// @Produce json
// @Param entryId path string true "Entry ID"
// @Param request body request_models.UpdateJournalEntryRequest true "New content"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /journal/entries/{entryId} [put]
func (j *JourneyController) UpdateEntry(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	entryId := c.Param("entryId")
	if entryId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Entry ID is required")
		return
	}

	var req request_models.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	if err := j.journeyService.UpdateEntry(c.Request.Context(), userId, entryId, req.Content); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Journal entry updated successfully")
}
