package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubgate/clubgate/internal/domain/event"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/mappers"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
	"github.com/clubgate/clubgate/internal/shared/db"
)

type ProcessedEventRepository struct {
	db *gorm.DB
}

func NewProcessedEventRepository(db *gorm.DB) *ProcessedEventRepository {
	return &ProcessedEventRepository{db: db}
}

// Record relies on the primary key to reject duplicates, so two concurrent
// deliveries of the same notification cannot both pass the ledger.
func (r *ProcessedEventRepository) Record(ctx context.Context, e *event.ProcessedEvent) error {
	model := mappers.ProcessedEventToModel(e)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return event.ErrEventAlreadyProcessed
		}
		return fmt.Errorf("failed to record processed event: %w", err)
	}

	return nil
}

func (r *ProcessedEventRepository) Has(ctx context.Context, ledgerID string) (bool, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProcessedEventModel{}).
		Where("ledger_id = ?", ledgerID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check processed event: %w", err)
	}

	return count > 0, nil
}
