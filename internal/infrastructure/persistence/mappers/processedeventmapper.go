package mappers

import (
	"github.com/clubgate/clubgate/internal/domain/event"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
)

func ProcessedEventToModel(e *event.ProcessedEvent) *models.ProcessedEventModel {
	return &models.ProcessedEventModel{
		LedgerID:    e.LedgerID(),
		EventType:   e.EventType(),
		ProcessedAt: e.ProcessedAt(),
	}
}

func ProcessedEventToDomain(model *models.ProcessedEventModel) *event.ProcessedEvent {
	return event.ReconstructProcessedEvent(model.LedgerID, model.EventType, model.ProcessedAt)
}
