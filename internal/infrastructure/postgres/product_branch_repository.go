package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

var _ repository.ProductBranchRepository = (*ProductBranchRepo)(nil)

// ProductBranchRepo persistence adapter for the branch_product join rows
// (pool or tx).
type ProductBranchRepo struct {
	q Querier
}

// NewProductBranchRepository builds the adapter. Pass pool or tx (Querier).
func NewProductBranchRepository(q Querier) *ProductBranchRepo {
	return &ProductBranchRepo{q: q}
}

const pivotColumns = `product_id, branch_id, stock_quantity, min_stock_level, price, is_active, created_at, updated_at`

// Create persists an assignment. The unique (product_id, branch_id) pair maps
// duplicates to ErrDuplicate.
func (r *ProductBranchRepo) Create(pb *entity.ProductBranch) error {
	query := `
		INSERT INTO branch_product (` + pivotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		pb.ProductID, pb.BranchID, pb.StockQuantity, pb.MinStockLevel,
		pb.Price, pb.IsActive, pb.CreatedAt, pb.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch assignment: %w", err)
	}
	return nil
}

// Get fetches one assignment. Returns nil when absent.
func (r *ProductBranchRepo) Get(productID, branchID string) (*entity.ProductBranch, error) {
	query := `SELECT ` + pivotColumns + ` FROM branch_product WHERE product_id = $1 AND branch_id = $2`
	var pb entity.ProductBranch
	err := r.q.QueryRow(context.Background(), query, productID, branchID).Scan(
		&pb.ProductID, &pb.BranchID, &pb.StockQuantity, &pb.MinStockLevel,
		&pb.Price, &pb.IsActive, &pb.CreatedAt, &pb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch assignment: %w", err)
	}
	return &pb, nil
}

// ListByProduct lists a product's assignments.
func (r *ProductBranchRepo) ListByProduct(productID string) ([]*entity.ProductBranch, error) {
	return r.list(productID, false)
}

// ListByProductForUpdate lists a product's assignments with FOR UPDATE row
// locks; must run inside a transaction.
func (r *ProductBranchRepo) ListByProductForUpdate(productID string) ([]*entity.ProductBranch, error) {
	return r.list(productID, true)
}

func (r *ProductBranchRepo) list(productID string, forUpdate bool) ([]*entity.ProductBranch, error) {
	query := `SELECT ` + pivotColumns + ` FROM branch_product WHERE product_id = $1 ORDER BY branch_id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list branch assignments: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductBranch
	for rows.Next() {
		var pb entity.ProductBranch
		if err := rows.Scan(&pb.ProductID, &pb.BranchID, &pb.StockQuantity, &pb.MinStockLevel,
			&pb.Price, &pb.IsActive, &pb.CreatedAt, &pb.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch assignment: %w", err)
		}
		list = append(list, &pb)
	}
	return list, rows.Err()
}

// Update updates an assignment's stock, min level, price and active flag.
func (r *ProductBranchRepo) Update(pb *entity.ProductBranch) error {
	query := `
		UPDATE branch_product SET stock_quantity = $3, min_stock_level = $4, price = $5, is_active = $6, updated_at = $7
		WHERE product_id = $1 AND branch_id = $2`
	_, err := r.q.Exec(context.Background(), query,
		pb.ProductID, pb.BranchID, pb.StockQuantity, pb.MinStockLevel,
		pb.Price, pb.IsActive, pb.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch assignment: %w", err)
	}
	return nil
}

// Delete removes one assignment.
func (r *ProductBranchRepo) Delete(productID, branchID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM branch_product WHERE product_id = $1 AND branch_id = $2`,
		productID, branchID,
	)
	if err != nil {
		return fmt.Errorf("delete branch assignment: %w", err)
	}
	return nil
}

// DeleteByProduct removes every assignment of a product (used by product delete).
func (r *ProductBranchRepo) DeleteByProduct(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM branch_product WHERE product_id = $1`,
		productID,
	)
	if err != nil {
		return fmt.Errorf("delete branch assignments: %w", err)
	}
	return nil
}
