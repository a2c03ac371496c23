package repository

import (
	"time"

	"github.com/tijara-app/tijara-api/internal/domain/entity"
)

// BranchRepository defines the persistence port for Branch (DIP).
// Branches are soft-deleted only; GetByID returns soft-deleted rows too so the
// caller decides visibility by role.
type BranchRepository interface {
	Create(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	Update(branch *entity.Branch) error
	ListByTenant(tenantID string, includeDeleted bool) ([]*entity.Branch, error)
	ListByIDs(ids []string) ([]*entity.Branch, error)
	SoftDelete(id string, at time.Time) error
}
