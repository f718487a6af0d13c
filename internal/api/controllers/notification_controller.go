package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mendpath/internal/models/request_models"
	"mendpath/internal/services"
	"mendpath/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationController(notificationService services.NotificationServiceInterface) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// ListNotifications godoc
// @Summary List the user's notifications
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} db_models.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (n *NotificationController) ListNotifications(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := n.notificationService.ListNotifications(c.Request.Context(), userId, unreadOnly)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, notifications, "Notifications fetched successfully")
}

// MarkRead godoc
// @Summary Mark one notification as read
// @Tags Notifications
// @Produce json
// @Param notificationId path string true "Notification ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /notifications/{notificationId}/read [put]
func (n *NotificationController) MarkRead(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	notificationId := c.Param("notificationId")
	if notificationId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Notification ID is required")
		return
	}

	if err := n.notificationService.MarkRead(c.Request.Context(), userId, notificationId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Notification marked as read")
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (n *NotificationController) MarkAllRead(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	if err := n.notificationService.MarkAllRead(c.Request.Context(), userId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "All notifications marked as read")
}

// GetPreferences godoc
// @Summary Get notification preferences
// @Description Returns the user's preferences, creating the default row on first access
// @Tags Notifications
// @Produce json
// @Success 200 {object} db_models.NotificationPreferences
// @Security BearerAuth
// @Router /notification-preferences [get]
func (n *NotificationController) GetPreferences(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	prefs, err := n.notificationService.GetPreferences(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, prefs, "Preferences fetched successfully")
}

// UpdatePreferences godoc
// @Summary Update notification preferences
// @Description Partial update; only the fields present in the body change
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body request_models.UpdatePreferencesRequest true "Preference toggles"
// @Success 200 {object} db_models.NotificationPreferences
// @Security BearerAuth
// @Router /notification-preferences [put]
func (n *NotificationController) UpdatePreferences(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	prefs, err := n.notificationService.UpdatePreferences(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, prefs, "Preferences updated successfully")
}
