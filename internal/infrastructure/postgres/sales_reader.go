package postgres

import (
	"context"
	"fmt"

	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

var _ repository.SalesReader = (*SalesReaderRepo)(nil)

// SalesReaderRepo read-only sales history checks over the billing subsystem's
// sale_items table (pool or tx).
type SalesReaderRepo struct {
	q Querier
}

// NewSalesReader builds the adapter. Pass pool or tx (Querier).
func NewSalesReader(q Querier) *SalesReaderRepo {
	return &SalesReaderRepo{q: q}
}

// HasSales reports whether any sale references the product, at any branch.
func (r *SalesReaderRepo) HasSales(productID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)`,
		productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sales: %w", err)
	}
	return exists, nil
}

// HasSalesAtBranch reports whether any sale references the product at the branch.
func (r *SalesReaderRepo) HasSalesAtBranch(productID, branchID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1 AND branch_id = $2)`,
		productID, branchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sales at branch: %w", err)
	}
	return exists, nil
}
