package repository

import "github.com/tijara-app/tijara-api/internal/domain/entity"

// ProductFilter narrows product listings. BranchID scopes the per-branch
// annotations; AllBranches suppresses branch filtering while keeping the
// aggregate columns (admin-only view).
type ProductFilter struct {
	TenantID    string
	BranchID    string
	AllBranches bool
	Search      string
	CategoryID  string
	LowStock    bool
	IsSparePart *bool
	Limit       int
	Offset      int
}

// ProductRepository defines the persistence port for Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByTenantAndSKU(tenantID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListWithBranchInfo(filter ProductFilter) ([]*entity.ProductBranchInfo, error)
	Delete(id string) error
}
