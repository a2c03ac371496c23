package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductBranch is the join record assigning a product to a branch, carrying the
// per-branch stock and price overrides. (ProductID, BranchID) is unique.
// A nil Price means "use the product's default selling price".
type ProductBranch struct {
	ProductID     string
	BranchID      string
	StockQuantity decimal.Decimal
	MinStockLevel decimal.Decimal
	Price         *decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice returns the branch override when set, else the product default.
func (pb *ProductBranch) EffectivePrice(productDefault decimal.Decimal) decimal.Decimal {
	if pb.Price != nil {
		return *pb.Price
	}
	return productDefault
}

// IsLowStock reports whether the branch stock is at or below its minimum level.
func (pb *ProductBranch) IsLowStock() bool {
	return pb.StockQuantity.LessThanOrEqual(pb.MinStockLevel)
}
