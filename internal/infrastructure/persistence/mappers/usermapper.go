package mappers

import (
	"fmt"

	"github.com/deskpulse/deskpulse/internal/domain/user"
	vo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/infrastructure/persistence/models"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

// UserMapper converts between user entities and persistence models.
type UserMapper interface {
	ToModel(u *user.User) *models.UserModel
	ToDomain(model *models.UserModel) (*user.User, error)
	ToDomainList(models []*models.UserModel) ([]*user.User, error)
}

type userMapper struct{}

func NewUserMapper() UserMapper {
	return &userMapper{}
}

func (m *userMapper) ToModel(u *user.User) *models.UserModel {
	if u == nil {
		return nil
	}
	return &models.UserModel{
		ID:           u.ID(),
		Name:         u.Name(),
		Email:        u.Email().String(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func (m *userMapper) ToDomain(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid stored email for user %d: %w", model.ID, err)
	}

	return user.ReconstructUser(
		model.ID,
		model.Name,
		email,
		model.PasswordHash,
		authorization.ParseUserRole(model.Role),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *userMapper) ToDomainList(list []*models.UserModel) ([]*user.User, error) {
	users := make([]*user.User, 0, len(list))
	for _, model := range list {
		u, err := m.ToDomain(model)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
