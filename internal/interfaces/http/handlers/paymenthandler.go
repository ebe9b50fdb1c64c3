package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "github.com/clubgate/clubgate/internal/application/payment/usecases"
	"github.com/clubgate/clubgate/internal/shared/logger"
	"github.com/clubgate/clubgate/internal/shared/utils"
)

type PaymentHandler struct {
	createPaymentUC *paymentUsecases.CreatePaymentUseCase
	logger          logger.Interface
}

func NewPaymentHandler(createPaymentUC *paymentUsecases.CreatePaymentUseCase, logger logger.Interface) *PaymentHandler {
	return &PaymentHandler{
		createPaymentUC: createPaymentUC,
		logger:          logger,
	}
}

type CreatePaymentRequest struct {
	TelegramID        int64  `json:"telegram_id" binding:"required"`
	Username          string `json:"username"`
	SavePaymentMethod bool   `json:"save_payment_method"`
}

type CreatePaymentResponse struct {
	PaymentID       string `json:"payment_id"`
	ConfirmationURL string `json:"confirmation_url"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	ExpiresInSec    int    `json:"expires_in_sec"`
}

// @Summary		Create checkout payment
// @Description	Create a checkout payment link for a channel subscription
// @Tags			payments
// @Accept			json
// @Produce		json
// @Param			payment	body		CreatePaymentRequest							true	"Payment data"
// @Success		200		{object}	utils.APIResponse{data=CreatePaymentResponse}	"Payment created successfully"
// @Failure		400		{object}	utils.APIResponse								"Bad request"
// @Failure		500		{object}	utils.APIResponse								"Internal server error"
// @Router			/payments [post]
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind request", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, utils.FormatBindingError(err))
		return
	}

	cmd := paymentUsecases.CreatePaymentCommand{
		UserID:         req.TelegramID,
		Handle:         req.Username,
		SaveInstrument: req.SavePaymentMethod,
	}

	result, err := h.createPaymentUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create payment", "error", err, "telegram_id", req.TelegramID)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to create payment")
		return
	}

	response := CreatePaymentResponse{
		PaymentID:       result.ProviderID,
		ConfirmationURL: result.ConfirmationURL,
		Amount:          result.AmountKopecks,
		Currency:        result.Currency,
		ExpiresInSec:    int(result.LinkTTL.Seconds()),
	}

	utils.SuccessResponse(c, http.StatusOK, "payment created successfully", response)
}
