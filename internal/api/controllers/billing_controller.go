package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mendpath/internal/models/request_models"
	"mendpath/internal/services"
	"mendpath/pkg/utils"
)

type BillingController struct {
	billingService services.BillingServiceInterface
}

func NewBillingController(billingService services.BillingServiceInterface) *BillingController {
	return &BillingController{
		billingService: billingService,
	}
}

// GetPlans godoc
// @Summary List subscription plans
// @Tags Billing
// @Produce json
// @Success 200 {array} response_models.SubscriptionPlan
// @Router /plans [get]
func (b *BillingController) GetPlans(c *gin.Context) {
	plans, err := b.billingService.GetPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Plans fetched successfully")
}

// CreateSubscription godoc
// @Summary Subscribe to a plan
// @Description Creates the Stripe subscription and returns the client secret for payment confirmation. Plans with a trial period activate immediately.
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CreateSubscriptionRequest true "Plan code"
// @Success 201 {object} response_models.CreateSubscriptionResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /create-subscription [post]
func (b *BillingController) CreateSubscription(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	var req request_models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "plan_code is required")
		return
	}

	result, err := b.billingService.CreateSubscription(c.Request.Context(), userId, req.PlanCode)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, result, "Subscription created successfully")
}

// CancelSubscription godoc
// @Summary Cancel the active subscription
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /subscription/cancel [post]
func (b *BillingController) CancelSubscription(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	if err := b.billingService.CancelSubscription(c.Request.Context(), userId); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Subscription cancelled successfully")
}

// GetStatus godoc
// @Summary Get the user's subscription status
// @Tags Billing
// @Produce json
// @Success 200 {object} response_models.SubscriptionStatusResponse
// @Security BearerAuth
// @Router /subscription/status [get]
func (b *BillingController) GetStatus(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	status, err := b.billingService.GetStatus(c.Request.Context(), userId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, status, "Subscription status fetched successfully")
}

// Webhook handles Stripe webhook deliveries. Signature verification and
// event dispatch happen in the billing service; this endpoint is not
// behind JWT auth.
func (b *BillingController) Webhook(c *gin.Context) {
	b.billingService.HandleWebhook(c)
}
