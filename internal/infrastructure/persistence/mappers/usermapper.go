package mappers

import (
	"github.com/clubgate/clubgate/internal/domain/user"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
)

func UserToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		TelegramID: u.TelegramID(),
		Handle:     u.Handle(),
		CreatedAt:  u.CreatedAt(),
		UpdatedAt:  u.UpdatedAt(),
	}
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	return user.ReconstructUser(model.TelegramID, model.Handle, model.CreatedAt, model.UpdatedAt)
}
