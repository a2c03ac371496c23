package repository

import "github.com/tijara-app/tijara-api/internal/domain/entity"

// TenantRepository defines the persistence port for Tenant (DIP).
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	List(limit, offset int) ([]*entity.Tenant, error)
}
