package repository

import "github.com/tijara-app/tijara-api/internal/domain/entity"

// ProductBranchRepository defines the persistence port for the product/branch
// join rows carrying per-branch stock and price overrides.
type ProductBranchRepository interface {
	Create(pb *entity.ProductBranch) error
	Get(productID, branchID string) (*entity.ProductBranch, error)
	ListByProduct(productID string) ([]*entity.ProductBranch, error)
	// ListByProductForUpdate locks the product's join rows for the duration of
	// the surrounding transaction (SELECT ... FOR UPDATE).
	ListByProductForUpdate(productID string) ([]*entity.ProductBranch, error)
	Update(pb *entity.ProductBranch) error
	Delete(productID, branchID string) error
	DeleteByProduct(productID string) error
}
