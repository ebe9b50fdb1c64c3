package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clubgate/clubgate/internal/application/billing"
	"github.com/clubgate/clubgate/internal/shared/biztime"
	"github.com/clubgate/clubgate/internal/shared/logger"
	"github.com/clubgate/clubgate/internal/shared/utils"
)

type AdminHandler struct {
	pricing *billing.PricingService
	logger  logger.Interface
}

func NewAdminHandler(pricing *billing.PricingService, logger logger.Interface) *AdminHandler {
	return &AdminHandler{
		pricing: pricing,
		logger:  logger,
	}
}

type PromoResetResponse struct {
	PromoEndsAt string `json:"promo_ends_at"`
}

// @Summary		Reset promotional window
// @Description	Restart the promotional pricing window from now
// @Tags			admin
// @Produce		json
// @Security		AdminToken
// @Success		200	{object}	utils.APIResponse{data=PromoResetResponse}	"Promo window reset"
// @Failure		401	{object}	utils.APIResponse							"Unauthorized"
// @Failure		500	{object}	utils.APIResponse							"Internal server error"
// @Router			/admin/promo/reset [post]
func (h *AdminHandler) ResetPromo(c *gin.Context) {
	w, err := h.pricing.ResetPromo(c.Request.Context(), biztime.NowUTC())
	if err != nil {
		h.logger.Errorw("failed to reset promo window", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to reset promo window")
		return
	}

	h.logger.Infow("promo window reset", "ends_at", w.EndsAt())

	utils.SuccessResponse(c, http.StatusOK, "promo window reset", PromoResetResponse{
		PromoEndsAt: w.EndsAt().Format(time.RFC3339),
	})
}
