package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"

	"mendpath/internal/config"
	"mendpath/internal/models/db_models"
	"mendpath/internal/models/response_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/utils"
)

const providerStripe = "stripe"

type BillingServiceInterface interface {
	GetPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error)
	CreateSubscription(ctx context.Context, userId uuid.UUID, planCode string) (*response_models.CreateSubscriptionResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
	GetStatus(ctx context.Context, userId uuid.UUID) (*response_models.SubscriptionStatusResponse, error)
	HandleWebhook(c *gin.Context)
}

type BillingService struct {
	planRepo repositories.IPlanRepository
	subRepo  repositories.SubscriptionRepository
	userRepo repositories.UserRepository
	notifier NotifierInterface
	cfg      config.StripeConfig
}

func NewBillingService(
	planRepo repositories.IPlanRepository,
	subRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	notifier NotifierInterface,
	cfg config.StripeConfig,
) (BillingServiceInterface, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("missing Stripe secret key")
	}
	stripe.Key = cfg.SecretKey

	return &BillingService{
		planRepo: planRepo,
		subRepo:  subRepo,
		userRepo: userRepo,
		notifier: notifier,
		cfg:      cfg,
	}, nil
}

func (b *BillingService) GetPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error) {
	plans, err := b.planRepo.GetActivePlans(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.SubscriptionPlan, 0, len(plans))
	for _, plan := range plans {
		out = append(out, response_models.SubscriptionPlan{
			ID:          plan.ID,
			Code:        plan.Code,
			Name:        plan.Name,
			Description: plan.Description,
			Price:       plan.PriceMinor,
			Currency:    plan.Currency,
			Period:      string(plan.Period),
			TrialDays:   plan.TrialDays,
			IsActive:    plan.IsActive,
		})
	}
	return out, nil
}

func (b *BillingService) CreateSubscription(ctx context.Context, userId uuid.UUID, planCode string) (*response_models.CreateSubscriptionResponse, error) {
	plan, err := b.planRepo.GetPlanByCode(ctx, planCode)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	user, err := b.userRepo.FindById(ctx, userId.String())
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrAccountNotFound
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Metadata: map[string]string{
				"user_id": user.ID.String(),
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("stripe customer create failed")
			return nil, utils.ErrPaymentProvider
		}
		customerID = cust.ID
		if err := b.userRepo.UpdateStripeCustomerID(ctx, user.ID.String(), customerID); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	subParams := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(plan.StripePriceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		Metadata: map[string]string{
			"user_id":   user.ID.String(),
			"plan_id":   plan.ID.String(),
			"plan_code": plan.Code,
		},
	}
	if plan.TrialDays > 0 {
		subParams.TrialPeriodDays = stripe.Int64(int64(plan.TrialDays))
	}
	subParams.AddExpand("latest_invoice.payment_intent")

	sub, err := subscription.New(subParams)
	if err != nil {
		log.Error().Err(err).Str("plan_code", plan.Code).Msg("stripe subscription create failed")
		return nil, utils.ErrPaymentProvider
	}

	// Pending payment row links our records to the provider subscription;
	// the webhook resolves it idempotently.
	payment := &db_models.Payment{
		UserID:        user.ID,
		AmountMinor:   plan.PriceMinor,
		Currency:      plan.Currency,
		Status:        db_models.PaymentPending,
		Provider:      providerStripe,
		ProviderTxnID: sub.ID,
		Metadata: jsonRaw(map[string]any{
			"plan_id":   plan.ID,
			"plan_code": plan.Code,
		}),
	}
	if err := b.subRepo.CreatePayment(ctx, payment); err != nil {
		return nil, utils.ErrDatabaseError
	}

	// Trials start immediately without an invoice payment.
	if sub.Status == stripe.SubscriptionStatusTrialing {
		if err := b.activateSubscription(ctx, user.ID, plan, sub.ID, db_models.SubStatusTrialing); err != nil {
			return nil, err
		}
	}

	resp := &response_models.CreateSubscriptionResponse{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		resp.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return resp, nil
}

func (b *BillingService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	sub, err := b.subRepo.GetCurrentByUser(ctx, userId)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if sub == nil {
		return utils.ErrNoSubscription
	}

	if _, err := subscription.Cancel(sub.ProviderSubID, nil); err != nil {
		log.Error().Err(err).Str("provider_sub_id", sub.ProviderSubID).Msg("stripe cancel failed")
		return utils.ErrPaymentProvider
	}

	now := time.Now().Unix()
	if err := b.subRepo.UpdateStatus(ctx, sub.ID, db_models.SubStatusCanceled, &now); err != nil {
		return utils.ErrDatabaseError
	}
	if err := b.userRepo.UpdateSubscriptionSnapshot(ctx, userId.String(), db_models.SubStatusCanceled); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (b *BillingService) GetStatus(ctx context.Context, userId uuid.UUID) (*response_models.SubscriptionStatusResponse, error) {
	user, err := b.userRepo.FindById(ctx, userId.String())
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrAccountNotFound
	}

	resp := &response_models.SubscriptionStatusResponse{
		Status: string(user.SubscriptionStatus),
	}

	sub, err := b.subRepo.GetCurrentByUser(ctx, userId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if sub != nil {
		resp.EndsAt = sub.EndsAt
		resp.AutoRenew = sub.AutoRenew
		if plan, err := b.planRepo.GetPlanInfoById(ctx, sub.PlanID.String()); err == nil && plan != nil {
			resp.PlanCode = plan.Code
		}
	}
	return resp, nil
}

func (b *BillingService) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), b.cfg.WebhookSecret)
	if err != nil {
		log.Warn().Err(err).Msg("webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	ctx := c.Request.Context()

	switch event.Type {
	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil || invoice.Subscription == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}
		if err := b.handlePaymentSucceeded(ctx, &invoice); err != nil {
			log.Error().Err(err).Str("invoice_id", invoice.ID).Msg("webhook processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
			return
		}
		if err := b.handleSubscriptionDeleted(ctx, sub.ID); err != nil {
			log.Error().Err(err).Str("subscription_id", sub.ID).Msg("webhook processing failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
			return
		}

	default:
		// Ack unhandled event types so the provider stops retrying.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (b *BillingService) handlePaymentSucceeded(ctx context.Context, invoice *stripe.Invoice) error {
	payment, err := b.subRepo.GetPaymentByProviderTxnID(ctx, invoice.Subscription.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		// Renewal invoices have no pending payment row; record one.
		payment = &db_models.Payment{
			UserID:        uuid.Nil,
			AmountMinor:   invoice.AmountPaid,
			Currency:      string(invoice.Currency),
			Status:        db_models.PaymentPending,
			Provider:      providerStripe,
			ProviderTxnID: invoice.Subscription.ID,
		}
		existing, err := b.subRepo.GetByProviderSubID(ctx, invoice.Subscription.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			log.Warn().Str("subscription_id", invoice.Subscription.ID).
				Msg("webhook for unknown subscription, acking")
			return nil
		}
		payment.UserID = existing.UserID
		payment.SubscriptionID = &existing.ID
		if err := b.subRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}
	}

	// Idempotency: a paid payment means this invoice was already handled.
	if payment.Status == db_models.PaymentPaid {
		return nil
	}

	if err := b.subRepo.MarkPaymentPaid(ctx, payment.ID, time.Now().Unix(), jsonRaw(map[string]any{
		"invoice_id":  invoice.ID,
		"amount_paid": invoice.AmountPaid,
	})); err != nil {
		return err
	}

	var meta struct {
		PlanID   uuid.UUID `json:"plan_id"`
		PlanCode string    `json:"plan_code"`
	}
	_ = json.Unmarshal(payment.Metadata, &meta)

	plan, err := b.planRepo.GetPlanInfoById(ctx, meta.PlanID.String())
	if err != nil {
		return err
	}
	if plan == nil {
		sub, err := b.subRepo.GetByProviderSubID(ctx, invoice.Subscription.ID)
		if err != nil || sub == nil {
			return errors.New("cannot resolve plan for paid invoice")
		}
		// Renewal: extend the existing subscription's window.
		plan, err = b.planRepo.GetPlanInfoById(ctx, sub.PlanID.String())
		if err != nil || plan == nil {
			return errors.New("plan missing for renewal")
		}
	}

	return b.activateSubscription(ctx, payment.UserID, plan, invoice.Subscription.ID, db_models.SubStatusActive)
}

// activateSubscription creates (or refreshes) the local subscription row
// and the user snapshot. Safe to call repeatedly for the same provider
// subscription id.
func (b *BillingService) activateSubscription(ctx context.Context, userId uuid.UUID, plan *db_models.Plan, providerSubID string, status db_models.SubscriptionStatus) error {
	existing, err := b.subRepo.GetByProviderSubID(ctx, providerSubID)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.Status != status {
			if err := b.subRepo.UpdateStatus(ctx, existing.ID, status, nil); err != nil {
				return err
			}
		}
	} else {
		starts := time.Now()
		var ends time.Time
		switch plan.Period {
		case db_models.PeriodYear:
			ends = starts.AddDate(1, 0, 0)
		default:
			ends = starts.AddDate(0, 1, 0)
		}

		sub := &db_models.Subscription{
			UserID:        userId,
			PlanID:        plan.ID,
			Status:        status,
			StartsAt:      starts.Unix(),
			EndsAt:        ends.Unix(),
			AutoRenew:     true,
			Provider:      providerStripe,
			ProviderSubID: providerSubID,
		}
		if err := b.subRepo.Create(ctx, sub); err != nil {
			return err
		}
	}

	if err := b.userRepo.UpdateSubscriptionSnapshot(ctx, userId.String(), status); err != nil {
		return err
	}

	if b.notifier != nil {
		b.notifier.Notify(ctx, userId, db_models.NotifSubscription,
			"Welcome to the Guided Journey",
			"Your subscription is now "+string(status)+". Group sessions and your AI companion are unlocked.")
	}
	return nil
}

func (b *BillingService) handleSubscriptionDeleted(ctx context.Context, providerSubID string) error {
	sub, err := b.subRepo.GetByProviderSubID(ctx, providerSubID)
	if err != nil {
		return err
	}
	if sub == nil {
		return nil
	}

	now := time.Now().Unix()
	if err := b.subRepo.UpdateStatus(ctx, sub.ID, db_models.SubStatusCanceled, &now); err != nil {
		return err
	}
	return b.userRepo.UpdateSubscriptionSnapshot(ctx, sub.UserID.String(), db_models.SubStatusCanceled)
}

func jsonRaw(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
