package mappers

import (
	"fmt"

	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) *models.PaymentModel {
	model := &models.PaymentModel{
		ID:              p.ID(),
		ProviderID:      p.ProviderID(),
		UserID:          p.UserID(),
		Amount:          p.Amount().AmountInKopecks(),
		Currency:        p.Amount().Currency(),
		Purpose:         p.Purpose().String(),
		Status:          p.Status().String(),
		ConfirmationURL: p.ConfirmationURL(),
		InstrumentRef:   p.InstrumentRef(),
		PaidAt:          p.PaidAt(),
		CanceledAt:      p.CanceledAt(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}

	if len(p.Metadata()) > 0 {
		model.Metadata = p.Metadata()
	}

	return model
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	purpose := vo.PaymentPurpose(model.Purpose)
	if !purpose.IsValid() {
		return nil, fmt.Errorf("invalid payment purpose: %s", model.Purpose)
	}

	return payment.ReconstructPayment(payment.PaymentReconstructParams{
		ID:              model.ID,
		ProviderID:      model.ProviderID,
		UserID:          model.UserID,
		Amount:          vo.NewMoney(model.Amount, model.Currency),
		Purpose:         purpose,
		Status:          vo.PaymentStatus(model.Status),
		ConfirmationURL: model.ConfirmationURL,
		InstrumentRef:   model.InstrumentRef,
		PaidAt:          model.PaidAt,
		CanceledAt:      model.CanceledAt,
		Metadata:        model.Metadata,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
}
