package mappers

import (
	"github.com/clubgate/clubgate/internal/domain/promo"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
)

// promoWindowRowID pins the singleton row.
const promoWindowRowID = 1

func PromoWindowToModel(w *promo.Window) *models.PromoWindowModel {
	return &models.PromoWindowModel{
		ID:        promoWindowRowID,
		EndsAt:    w.EndsAt(),
		UpdatedAt: w.UpdatedAt(),
	}
}

func PromoWindowToDomain(model *models.PromoWindowModel) *promo.Window {
	return promo.ReconstructWindow(model.EndsAt, model.UpdatedAt)
}
