package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "github.com/clubgate/clubgate/internal/application/payment/usecases"
	"github.com/clubgate/clubgate/internal/infrastructure/gateway/yookassa"
	"github.com/clubgate/clubgate/internal/shared/logger"
	"github.com/clubgate/clubgate/internal/shared/utils"
)

const maxWebhookBodyBytes = 1 << 20

// WebhookHandler receives provider notifications and routes them into the
// engine. It answers 200 once the event is handled or recognized as a
// duplicate; only malformed input earns an HTTP error, since the provider
// retries anything else.
type WebhookHandler struct {
	succeededUC *paymentUsecases.HandlePaymentSucceededUseCase
	canceledUC  *paymentUsecases.HandlePaymentCanceledUseCase
	refundUC    *paymentUsecases.HandleRefundSucceededUseCase
	logger      logger.Interface
}

func NewWebhookHandler(
	succeededUC *paymentUsecases.HandlePaymentSucceededUseCase,
	canceledUC *paymentUsecases.HandlePaymentCanceledUseCase,
	refundUC *paymentUsecases.HandleRefundSucceededUseCase,
	logger logger.Interface,
) *WebhookHandler {
	return &WebhookHandler{
		succeededUC: succeededUC,
		canceledUC:  canceledUC,
		refundUC:    refundUC,
		logger:      logger,
	}
}

// @Summary		Payment provider webhook
// @Description	Receive payment and refund event notifications
// @Tags			webhooks
// @Accept			json
// @Produce		json
// @Success		200	{object}	utils.APIResponse	"Notification processed"
// @Failure		400	{object}	utils.APIResponse	"Malformed notification"
// @Router			/webhook/yookassa [post]
func (h *WebhookHandler) HandleNotification(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read body")
		return
	}

	n, err := yookassa.ParseNotification(body)
	if err != nil {
		if errors.Is(err, yookassa.ErrUnsupportedEvent) {
			h.logger.Debugw("ignoring unsupported event", "error", err)
			utils.SuccessResponse(c, http.StatusOK, "event ignored", nil)
			return
		}
		h.logger.Warnw("malformed webhook notification", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "malformed notification")
		return
	}

	switch n.Event {
	case yookassa.EventPaymentSucceeded:
		err = h.succeededUC.Execute(c.Request.Context(), paymentUsecases.HandlePaymentSucceededCommand{
			ProviderID: n.ObjectID,
		})
	case yookassa.EventPaymentCanceled:
		err = h.canceledUC.Execute(c.Request.Context(), paymentUsecases.HandlePaymentCanceledCommand{
			ProviderID: n.ObjectID,
			Reason:     n.Payment.CancellationReason,
		})
	case yookassa.EventRefundSucceeded:
		err = h.refundUC.Execute(c.Request.Context(), paymentUsecases.HandleRefundSucceededCommand{
			RefundID:          n.Refund.ProviderID,
			ProviderPaymentID: n.Refund.PaymentID,
			AmountKopecks:     n.Refund.AmountKopecks,
			Currency:          n.Refund.Currency,
		})
	}

	if err != nil {
		h.logger.Errorw("failed to process notification", "event", n.Event, "object_id", n.ObjectID, "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "failed to process notification")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "notification processed", nil)
}
