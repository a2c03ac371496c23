package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item or spare part. StockQuantity and MinStockLevel are
// tenant-level defaults; the per-branch figures live in ProductBranch and are
// independent once a branch is assigned.
type Product struct {
	ID            string
	TenantID      string
	SKU           string // unique per tenant
	Name          string
	Description   string
	CategoryID    string
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity decimal.Decimal
	MinStockLevel decimal.Decimal
	IsSparePart   bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductBranchInfo is a product annotated with branch-scoped figures for list
// views. BranchStock/BranchPrice are nil when no specific branch is in scope.
type ProductBranchInfo struct {
	Product
	BranchStock        *decimal.Decimal
	BranchPrice        *decimal.Decimal
	IsLowStockInBranch bool
	TotalStock         decimal.Decimal
	BranchCount        int
	HasPriceVariance   bool
}
