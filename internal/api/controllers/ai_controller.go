package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mendpath/internal/models/request_models"
	"mendpath/internal/services"
	"mendpath/pkg/utils"
)

type AiController struct {
	aiService services.AiServiceInterface
}

func NewAiController(aiService services.AiServiceInterface) *AiController {
	return &AiController{
		aiService: aiService,
	}
}

// CreateConversation godoc
// @Summary Start a new AI companion conversation
// @Description Optionally anchors the conversation to one of the seven steps
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.CreateConversationRequest true "Title and optional step number"
// @Success 201 {object} response_models.ConversationResponse
// @Security BearerAuth
// @Router /ai/conversations [post]
func (a *AiController) CreateConversation(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	conversation, err := a.aiService.CreateConversation(c.Request.Context(), userId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, conversation, "Conversation created successfully")
}

// ListConversations godoc
// @Summary List the user's conversations
// @Tags AI
// @Produce json
// @Success 200 {array} response_models.ConversationResponse
// @Security BearerAuth
// @Router /ai/conversations [get]
func (a *AiController) ListConversations(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	conversations, err := a.aiService.ListConversations(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, conversations, "Conversations fetched successfully")
}

// ListMessages godoc
// @Summary List messages in a conversation
// @Tags AI
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Success 200 {array} db_models.AiChatMessage
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/conversations/{conversationId}/messages [get]
func (a *AiController) ListMessages(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	conversationId := c.Param("conversationId")
	if conversationId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Conversation ID is required")
		return
	}

	messages, err := a.aiService.ListMessages(c.Request.Context(), userId, conversationId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, messages, "Messages fetched successfully")
}

// SendMessage godoc
// @Summary Send a message and receive the companion's reply
// @Description The reply is template-driven unless use_guidance is set on a step-anchored conversation, in which case the language model is consulted. Crisis language in the message is flagged and answered with support resources first.
// @Tags AI
// @Accept json
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param request body request_models.SendMessageRequest true "Message content"
// @Success 200 {object} response_models.AssistantReply
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/conversations/{conversationId}/messages [post]
func (a *AiController) SendMessage(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	conversationId := c.Param("conversationId")
	if conversationId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Conversation ID is required")
		return
	}

	var req request_models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Content is required")
		return
	}

	reply, err := a.aiService.SendMessage(c.Request.Context(), userId, conversationId, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, reply, "Message sent successfully")
}
