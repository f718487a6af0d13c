package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mendpath/internal/models/db_models"
	"mendpath/pkg/utils"
)

// EntitlementSource is the read side the premium gate needs: the current
// subscription status snapshot plus the feature access log.
type EntitlementSource interface {
	SubscriptionStatus(ctx context.Context, userId string) (db_models.SubscriptionStatus, error)
	RecordFeatureAccess(ctx context.Context, userId string, featureName string)
}

type premiumDeniedBody struct {
	Message    string `json:"message"`
	UpgradeURL string `json:"upgradeUrl"`
}

// IsPremium gates subscription-only routes. Only active and trialing
// statuses pass; everything else (free, canceled, unknown user) gets a
// 403 with an upgrade pointer and the handler chain stops. The check is
// read-only except for the feature access log bump on success.
func IsPremium(source EntitlementSource, featureName, upgradeURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetString("user_id")
		if userId == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		status, err := source.SubscriptionStatus(c.Request.Context(), userId)
		if err != nil {
			log.Error().Err(err).Str("user_id", userId).Msg("entitlement lookup failed")
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		if !status.IsPremium() {
			c.JSON(http.StatusForbidden, premiumDeniedBody{
				Message:    "This feature is part of the Guided Journey subscription.",
				UpgradeURL: upgradeURL,
			})
			c.Abort()
			return
		}

		source.RecordFeatureAccess(c.Request.Context(), userId, featureName)
		c.Next()
	}
}
