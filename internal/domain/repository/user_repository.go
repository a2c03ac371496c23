package repository

import "github.com/tijara-app/tijara-api/internal/domain/entity"

// UserRepository defines the persistence port for User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndTenant(email, tenantID string) (*entity.User, error)
}
