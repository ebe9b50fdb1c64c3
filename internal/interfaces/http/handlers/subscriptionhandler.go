package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	subscriptionUsecases "github.com/clubgate/clubgate/internal/application/subscription/usecases"
	"github.com/clubgate/clubgate/internal/shared/logger"
	"github.com/clubgate/clubgate/internal/shared/utils"
)

type SubscriptionHandler struct {
	getStatusUC *subscriptionUsecases.GetStatusUseCase
	logger      logger.Interface
}

func NewSubscriptionHandler(getStatusUC *subscriptionUsecases.GetStatusUseCase, logger logger.Interface) *SubscriptionHandler {
	return &SubscriptionHandler{
		getStatusUC: getStatusUC,
		logger:      logger,
	}
}

type SubscriptionStatusResponse struct {
	Status             string `json:"status"`
	ExpiresAt          string `json:"expires_at,omitempty"`
	AutoRenewalEnabled bool   `json:"auto_renewal_enabled"`
	RenewalAttempts    int    `json:"renewal_attempts"`
}

// @Summary		Get subscription status
// @Description	Get the derived subscription state for a Telegram user
// @Tags			subscriptions
// @Produce		json
// @Param			telegram_id	path		int												true	"Telegram user ID"
// @Success		200			{object}	utils.APIResponse{data=SubscriptionStatusResponse}	"Subscription status"
// @Failure		400			{object}	utils.APIResponse								"Bad request"
// @Failure		500			{object}	utils.APIResponse								"Internal server error"
// @Router			/subscriptions/{telegram_id} [get]
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil || telegramID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid telegram_id")
		return
	}

	result, err := h.getStatusUC.Execute(c.Request.Context(), telegramID)
	if err != nil {
		h.logger.Errorw("failed to get subscription status", "telegram_id", telegramID, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to get subscription status")
		return
	}

	response := SubscriptionStatusResponse{
		Status:             result.Status.String(),
		AutoRenewalEnabled: result.AutoRenewalEnabled,
		RenewalAttempts:    result.RenewalAttempts,
	}
	if result.ExpiresAt != nil {
		response.ExpiresAt = result.ExpiresAt.Format(time.RFC3339)
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription status", response)
}
