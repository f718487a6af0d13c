package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mendpath/internal/models/request_models"
	"mendpath/internal/services"
	"mendpath/pkg/utils"
)

type SessionController struct {
	sessionService services.SessionServiceInterface
}

func NewSessionController(sessionService services.SessionServiceInterface) *SessionController {
	return &SessionController{
		sessionService: sessionService,
	}
}

// ListSessions godoc
// @Summary List group sessions
// @Tags Sessions
// @Produce json
// @Param upcoming query bool false "Only sessions that have not started yet"
// @Success 200 {array} response_models.SessionResponse
// @Security BearerAuth
// @Router /group-sessions [get]
func (s *SessionController) ListSessions(c *gin.Context) {
	var (
		sessions interface{}
		err      error
	)
	if c.Query("upcoming") == "true" {
		sessions, err = s.sessionService.ListUpcomingSessions(c.Request.Context())
	} else {
		sessions, err = s.sessionService.ListSessions(c.Request.Context())
	}
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sessions, "Sessions fetched successfully")
}

// GetSession godoc
// @Summary Get a group session by ID
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response_models.SessionResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /group-sessions/{sessionId} [get]
func (s *SessionController) GetSession(c *gin.Context) {
	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, err := s.sessionService.GetSession(c.Request.Context(), sessionId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Session fetched successfully")
}

// JoinSession godoc
// @Summary Join a scheduled group session
// @Description Joins under a per-session code name. Fails with 409 when the session is full or already joined.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.JoinSessionRequest true "Per-session code name"
// @Success 201 {object} response_models.ParticipantResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /group-sessions/{sessionId}/join [post]
func (s *SessionController) JoinSession(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req request_models.JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "A code name of 2-32 characters is required")
		return
	}

	participant, err := s.sessionService.JoinSession(c.Request.Context(), sessionId, userId, req.CodeName)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, participant, "Joined session successfully")
}

// LeaveSession godoc
// @Summary Leave a group session
// @Tags Sessions
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /group-sessions/{sessionId}/leave [post]
func (s *SessionController) LeaveSession(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := s.sessionService.LeaveSession(c.Request.Context(), sessionId, userId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Left session successfully")
}

// SubmitFeedback godoc
// @Summary Rate a completed session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.SessionFeedbackRequest true "Rating 1-5 and optional comment"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /group-sessions/{sessionId}/feedback [post]
func (s *SessionController) SubmitFeedback(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req request_models.SessionFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	if err := s.sessionService.SubmitFeedback(c.Request.Context(), sessionId, userId, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Feedback submitted successfully")
}

// CreateSession godoc
// @Summary Create a group session
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.CreateSessionRequest true "Session details"
// @Success 201 {object} response_models.SessionResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/group-sessions [post]
func (s *SessionController) CreateSession(c *gin.Context) {
	var req request_models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Facilitator, title, type, schedule and capacity are required")
		return
	}

	session, err := s.sessionService.CreateSession(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, session, "Session created successfully")
}

// UpdateSession godoc
// @Summary Update a group session
// @Description Partial update. Status changes must follow the session lifecycle; shrinking capacity below the current participant count is rejected.
// @Tags Admin
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.UpdateSessionRequest true "Fields to change"
// @Success 200 {object} response_models.SessionResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/group-sessions/{sessionId} [patch]
func (s *SessionController) UpdateSession(c *gin.Context) {
	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req request_models.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.sessionService.UpdateSession(c.Request.Context(), sessionId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Session updated successfully")
}

// DeleteSession godoc
// @Summary Delete a group session
// @Description Removes the session together with its participant and payment rows
// @Tags Admin
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/group-sessions/{sessionId} [delete]
func (s *SessionController) DeleteSession(c *gin.Context) {
	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := s.sessionService.DeleteSession(c.Request.Context(), sessionId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Session deleted successfully")
}

// BulkUpdateAttendance godoc
// @Summary Record attendance for a session
// @Tags Admin
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body request_models.BulkAttendanceRequest true "Attendance records"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/sessions/{sessionId}/attendance [post]
func (s *SessionController) BulkUpdateAttendance(c *gin.Context) {
	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req request_models.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Attendance records are required")
		return
	}

	updated, err := s.sessionService.BulkUpdateAttendance(c.Request.Context(), sessionId, req.Records)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"updated": updated}, "Attendance recorded successfully")
}

// GetAttendanceReport godoc
// @Summary Attendance report for one session
// @Tags Admin
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response_models.AttendanceReport
// @Security BearerAuth
// @Router /admin/sessions/{sessionId}/attendance-report [get]
func (s *SessionController) GetAttendanceReport(c *gin.Context) {
	sessionId := c.Param("sessionId")
	if sessionId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Session ID is required")
		return
	}

	report, err := s.sessionService.GetAttendanceReport(c.Request.Context(), sessionId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Attendance report fetched successfully")
}

// GetOverallAttendanceStats godoc
// @Summary Attendance rates grouped by session type
// @Tags Admin
// @Produce json
// @Success 200 {array} response_models.TypeAttendanceStats
// @Security BearerAuth
// @Router /admin/attendance-stats [get]
func (s *SessionController) GetOverallAttendanceStats(c *gin.Context) {
	stats, err := s.sessionService.GetOverallAttendanceStats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, stats, "Attendance stats fetched successfully")
}

// CreateFacilitator godoc
// @Summary Register a facilitator
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.CreateFacilitatorRequest true "Facilitator details"
// @Success 201 {object} db_models.Facilitator
// @Security BearerAuth
// @Router /admin/facilitators [post]
func (s *SessionController) CreateFacilitator(c *gin.Context) {
	var req request_models.CreateFacilitatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name is required")
		return
	}

	facilitator, err := s.sessionService.CreateFacilitator(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, facilitator, "Facilitator created successfully")
}

// ListFacilitators godoc
// @Summary List active facilitators
// @Tags Sessions
// @Produce json
// @Success 200 {array} db_models.Facilitator
// @Security BearerAuth
// @Router /facilitators [get]
func (s *SessionController) ListFacilitators(c *gin.Context) {
	facilitators, err := s.sessionService.ListFacilitators(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, facilitators, "Facilitators fetched successfully")
}

// DeactivateFacilitator godoc
// @Summary Deactivate a facilitator
// @Description Deactivated facilitators keep their session history but cannot be assigned new sessions
// @Tags Admin
// @Produce json
// @Param facilitatorId path string true "Facilitator ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/facilitators/{facilitatorId} [delete]
func (s *SessionController) DeactivateFacilitator(c *gin.Context) {
	facilitatorId := c.Param("facilitatorId")
	if facilitatorId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Facilitator ID is required")
		return
	}

	if err := s.sessionService.DeactivateFacilitator(c.Request.Context(), facilitatorId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Facilitator deactivated successfully")
}
