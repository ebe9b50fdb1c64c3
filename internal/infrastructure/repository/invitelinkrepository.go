package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/mappers"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
	"github.com/clubgate/clubgate/internal/shared/db"
)

type InviteLinkRepository struct {
	db *gorm.DB
}

func NewInviteLinkRepository(db *gorm.DB) *InviteLinkRepository {
	return &InviteLinkRepository{db: db}
}

func (r *InviteLinkRepository) Create(ctx context.Context, l *invitelink.InviteLink) error {
	model := mappers.InviteLinkToModel(l)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create invite link: %w", err)
	}

	l.SetID(model.ID)

	return nil
}

func (r *InviteLinkRepository) Update(ctx context.Context, l *invitelink.InviteLink) error {
	model := mappers.InviteLinkToModel(l)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.InviteLinkModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"revoked_at": model.RevokedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update invite link: %w", result.Error)
	}

	return nil
}

func (r *InviteLinkRepository) FindActiveByUserID(ctx context.Context, userID int64) ([]*invitelink.InviteLink, error) {
	var list []models.InviteLinkModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to find active invite links: %w", err)
	}

	links := make([]*invitelink.InviteLink, 0, len(list))
	for i := range list {
		links = append(links, mappers.InviteLinkToDomain(&list[i]))
	}
	return links, nil
}
