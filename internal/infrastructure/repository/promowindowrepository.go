package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubgate/clubgate/internal/domain/promo"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/mappers"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
	"github.com/clubgate/clubgate/internal/shared/db"
)

type PromoWindowRepository struct {
	db *gorm.DB
}

func NewPromoWindowRepository(db *gorm.DB) *PromoWindowRepository {
	return &PromoWindowRepository{db: db}
}

func (r *PromoWindowRepository) Get(ctx context.Context) (*promo.Window, error) {
	var model models.PromoWindowModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, promo.ErrWindowNotFound
		}
		return nil, fmt.Errorf("failed to get promo window: %w", err)
	}

	return mappers.PromoWindowToDomain(&model), nil
}

func (r *PromoWindowRepository) Save(ctx context.Context, w *promo.Window) error {
	model := mappers.PromoWindowToModel(w)

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"ends_at", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save promo window: %w", err)
	}

	return nil
}
