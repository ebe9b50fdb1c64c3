package mappers

import (
	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
)

func InviteLinkToModel(l *invitelink.InviteLink) *models.InviteLinkModel {
	return &models.InviteLinkModel{
		ID:        l.ID(),
		UserID:    l.UserID(),
		URL:       l.URL(),
		ExpiresAt: l.ExpiresAt(),
		RevokedAt: l.RevokedAt(),
		CreatedAt: l.CreatedAt(),
	}
}

func InviteLinkToDomain(model *models.InviteLinkModel) *invitelink.InviteLink {
	return invitelink.ReconstructInviteLink(model.ID, model.UserID, model.URL, model.ExpiresAt, model.RevokedAt, model.CreatedAt)
}
