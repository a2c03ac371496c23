package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo ProductRepository implementation over PostgreSQL (pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the persistence adapter. Pass pool or tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, sku, name, description, category_id, cost_price, selling_price, stock_quantity, min_stock_level, is_spare_part, is_active, created_at, updated_at`

// Create persists a new product.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.TenantID, product.SKU, product.Name, product.Description,
		product.CategoryID, product.CostPrice, product.SellingPrice, product.StockQuantity,
		product.MinStockLevel, product.IsSparePart, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID fetches a product by id. Returns nil when absent.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByTenantAndSKU fetches a product by tenant and SKU. Returns nil when absent.
func (r *ProductRepo) GetByTenantAndSKU(tenantID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 AND sku = $2`
	p, err := r.scanOne(r.q.QueryRow(context.Background(), query, tenantID, sku))
	if err != nil {
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update updates a product. SKU is immutable after creation.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, category_id = $4, cost_price = $5,
			selling_price = $6, min_stock_level = $7, is_spare_part = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.CategoryID, product.CostPrice,
		product.SellingPrice, product.MinStockLevel, product.IsSparePart, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// ListWithBranchInfo lists tenant products with aggregate branch figures and,
// when a branch is in scope, that branch's stock and effective price. A scoped
// listing only returns products assigned to the branch.
func (r *ProductRepo) ListWithBranchInfo(filter repository.ProductFilter) ([]*entity.ProductBranchInfo, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT p.id, p.tenant_id, p.sku, p.name, p.description, p.category_id, p.cost_price,
			p.selling_price, p.stock_quantity, p.min_stock_level, p.is_spare_part, p.is_active,
			p.created_at, p.updated_at,
			agg.total_stock, agg.branch_count, agg.has_price_variance,
			bp.stock_quantity, bp.min_stock_level, bp.price
		FROM products p
		LEFT JOIN LATERAL (
			SELECT COALESCE(SUM(x.stock_quantity), 0) AS total_stock,
				COUNT(*) AS branch_count,
				COUNT(DISTINCT COALESCE(x.price, p.selling_price)) > 1 AS has_price_variance
			FROM branch_product x WHERE x.product_id = p.id
		) agg ON true
		LEFT JOIN branch_product bp ON bp.product_id = p.id AND bp.branch_id = `)

	args := []any{filter.TenantID}
	scoped := filter.BranchID != "" && !filter.AllBranches
	if scoped {
		args = append(args, filter.BranchID)
		sb.WriteString(fmt.Sprintf("$%d", len(args)))
	} else {
		// No branch in scope: the bp join never matches and its columns stay NULL.
		sb.WriteString("NULL")
	}
	sb.WriteString(`
		WHERE p.tenant_id = $1`)
	if scoped {
		sb.WriteString(` AND bp.product_id IS NOT NULL`)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		sb.WriteString(fmt.Sprintf(` AND (p.name ILIKE $%d OR p.sku ILIKE $%d)`, len(args), len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		sb.WriteString(fmt.Sprintf(` AND p.category_id = $%d`, len(args)))
	}
	if filter.IsSparePart != nil {
		args = append(args, *filter.IsSparePart)
		sb.WriteString(fmt.Sprintf(` AND p.is_spare_part = $%d`, len(args)))
	}
	if filter.LowStock {
		if scoped {
			sb.WriteString(` AND bp.stock_quantity <= bp.min_stock_level`)
		} else {
			sb.WriteString(` AND EXISTS (
				SELECT 1 FROM branch_product l
				WHERE l.product_id = p.id AND l.stock_quantity <= l.min_stock_level)`)
		}
	}
	sb.WriteString(` ORDER BY p.created_at DESC`)
	args = append(args, filter.Limit)
	sb.WriteString(fmt.Sprintf(` LIMIT $%d`, len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(fmt.Sprintf(` OFFSET $%d`, len(args)))

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductBranchInfo
	for rows.Next() {
		var info entity.ProductBranchInfo
		var branchStock, branchMin, branchPrice *decimal.Decimal
		if err := rows.Scan(
			&info.ID, &info.TenantID, &info.SKU, &info.Name, &info.Description, &info.CategoryID,
			&info.CostPrice, &info.SellingPrice, &info.StockQuantity, &info.MinStockLevel,
			&info.IsSparePart, &info.IsActive, &info.CreatedAt, &info.UpdatedAt,
			&info.TotalStock, &info.BranchCount, &info.HasPriceVariance,
			&branchStock, &branchMin, &branchPrice,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if branchStock != nil {
			info.BranchStock = branchStock
			price := info.SellingPrice
			if branchPrice != nil {
				price = *branchPrice
			}
			info.BranchPrice = &price
			if branchMin != nil {
				info.IsLowStockInBranch = branchStock.LessThanOrEqual(*branchMin)
			}
		}
		list = append(list, &info)
	}
	return list, rows.Err()
}

// Delete removes a product by id.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.CategoryID,
		&p.CostPrice, &p.SellingPrice, &p.StockQuantity, &p.MinStockLevel,
		&p.IsSparePart, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
