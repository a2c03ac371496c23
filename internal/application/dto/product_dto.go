package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest input for creating a product. BranchIDs must name at
// least one branch; BranchStock/BranchPrices carry per-branch overrides keyed
// by branch id and fall back to the product defaults when absent.
type CreateProductRequest struct {
	SKU           string                     `json:"sku" validate:"required,min=1,max=100"`
	Name          string                     `json:"name" validate:"required,min=1,max=200"`
	Description   string                     `json:"description"`
	CategoryID    string                     `json:"category_id"`
	CostPrice     decimal.Decimal            `json:"cost_price"`
	SellingPrice  decimal.Decimal            `json:"selling_price"`
	StockQuantity decimal.Decimal            `json:"stock_quantity"`
	MinStockLevel decimal.Decimal            `json:"min_stock_level"`
	IsSparePart   bool                       `json:"is_spare_part"`
	BranchIDs     []string                   `json:"branch_ids"`
	BranchStock   map[string]decimal.Decimal `json:"branch_stock"`
	BranchPrices  map[string]decimal.Decimal `json:"branch_prices"`
}

// UpdateProductRequest input for a partial product update. BranchIDs (full
// replacement) and AddBranches/RemoveBranches (incremental) may both be present
// in one request and are both applied. ForceRemove permits removal despite
// sales history.
type UpdateProductRequest struct {
	Name           *string                    `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string                    `json:"description"`
	CategoryID     *string                    `json:"category_id"`
	CostPrice      *decimal.Decimal           `json:"cost_price"`
	SellingPrice   *decimal.Decimal           `json:"selling_price"`
	MinStockLevel  *decimal.Decimal           `json:"min_stock_level"`
	IsSparePart    *bool                      `json:"is_spare_part"`
	IsActive       *bool                      `json:"is_active"`
	BranchIDs      *[]string                  `json:"branch_ids"`
	AddBranches    []string                   `json:"add_branches"`
	RemoveBranches []string                   `json:"remove_branches"`
	ForceRemove    bool                       `json:"force_remove"`
	BranchStock    map[string]decimal.Decimal `json:"branch_stock"`
	BranchPrices   map[string]decimal.Decimal `json:"branch_prices"`
}

// ProductBranchResponse one branch assignment of a product.
type ProductBranchResponse struct {
	BranchID      string           `json:"branch_id"`
	BranchName    string           `json:"branch_name,omitempty"`
	StockQuantity decimal.Decimal  `json:"stock_quantity"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	Price         *decimal.Decimal `json:"price"`
	IsActive      bool             `json:"is_active"`
	IsLowStock    bool             `json:"is_low_stock"`
}

// ProductResponse product output with its branch assignments.
type ProductResponse struct {
	ID            string                  `json:"id"`
	TenantID      string                  `json:"tenant_id"`
	SKU           string                  `json:"sku"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	CategoryID    string                  `json:"category_id,omitempty"`
	CostPrice     decimal.Decimal         `json:"cost_price"`
	SellingPrice  decimal.Decimal         `json:"selling_price"`
	StockQuantity decimal.Decimal         `json:"stock_quantity"`
	MinStockLevel decimal.Decimal         `json:"min_stock_level"`
	IsSparePart   bool                    `json:"is_spare_part"`
	IsActive      bool                    `json:"is_active"`
	Branches      []ProductBranchResponse `json:"branches,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ProductListItem product row in a branch-scoped listing. BranchStock,
// BranchPrice and IsLowStockInBranch are present only when a specific branch is
// in scope; the aggregates are always attached.
type ProductListItem struct {
	ID                 string           `json:"id"`
	SKU                string           `json:"sku"`
	Name               string           `json:"name"`
	CategoryID         string           `json:"category_id,omitempty"`
	SellingPrice       decimal.Decimal  `json:"selling_price"`
	IsSparePart        bool             `json:"is_spare_part"`
	IsActive           bool             `json:"is_active"`
	BranchStock        *decimal.Decimal `json:"branch_stock,omitempty"`
	BranchPrice        *decimal.Decimal `json:"branch_price,omitempty"`
	IsLowStockInBranch bool             `json:"is_low_stock_in_branch"`
	TotalStock         decimal.Decimal  `json:"total_stock"`
	BranchCount        int              `json:"branch_count"`
	HasPriceVariance   bool             `json:"has_price_variance"`
}

// ProductListResponse paginated product listing.
type ProductListResponse struct {
	Items []ProductListItem `json:"items"`
	Page  PageResponse      `json:"page"`
}

// BulkAssignRequest input for assigning many products to one branch.
type BulkAssignRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1"`
	BranchID   string   `json:"branch_id" validate:"required"`
}

// SkippedProduct one product left untouched by a bulk assignment, with reason.
type SkippedProduct struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// BulkAssignResponse structural partial-success summary of a bulk assignment.
type BulkAssignResponse struct {
	Assigned        int              `json:"assigned"`
	Skipped         int              `json:"skipped"`
	SkippedProducts []SkippedProduct `json:"skipped_products"`
}
