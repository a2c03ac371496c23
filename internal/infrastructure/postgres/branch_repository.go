package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo BranchRepository implementation over PostgreSQL (pool or tx).
type BranchRepo struct {
	q Querier
}

// NewBranchRepository builds the adapter. Pass pool or tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, tenant_id, code, name, is_active, is_default, deleted_at, created_at, updated_at`

// Create persists a branch. A duplicate (tenant_id, code) maps to ErrDuplicate.
func (r *BranchRepo) Create(branch *entity.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		branch.ID, branch.TenantID, branch.Code, branch.Name, branch.IsActive,
		branch.IsDefault, branch.DeletedAt, branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID fetches a branch, soft-deleted rows included. Returns nil when absent.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	var b entity.Branch
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.TenantID, &b.Code, &b.Name, &b.IsActive, &b.IsDefault,
		&b.DeletedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return &b, nil
}

// Update updates a branch's mutable fields.
func (r *BranchRepo) Update(branch *entity.Branch) error {
	query := `
		UPDATE branches SET name = $2, is_active = $3, is_default = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		branch.ID, branch.Name, branch.IsActive, branch.IsDefault, branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// ListByTenant lists a tenant's branches, default first for a stable order.
func (r *BranchRepo) ListByTenant(tenantID string, includeDeleted bool) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE tenant_id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY is_default DESC, id ASC`
	rows, err := r.q.Query(context.Background(), query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// ListByIDs fetches branches by id, soft-deleted rows included.
func (r *BranchRepo) ListByIDs(ids []string) ([]*entity.Branch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = ANY($1) ORDER BY is_default DESC, id ASC`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list branches by ids: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// SoftDelete marks a branch as deleted without removing the row.
func (r *BranchRepo) SoftDelete(id string, at time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE branches SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete branch: %w", err)
	}
	return nil
}

func (r *BranchRepo) scanList(rows pgx.Rows) ([]*entity.Branch, error) {
	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.TenantID, &b.Code, &b.Name, &b.IsActive, &b.IsDefault,
			&b.DeletedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
