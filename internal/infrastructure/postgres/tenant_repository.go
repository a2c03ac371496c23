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

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo TenantRepository implementation over PostgreSQL (pool or tx).
type TenantRepo struct {
	q Querier
}

// NewTenantRepository builds the adapter. Pass pool or tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persists a tenant.
func (r *TenantRepo) Create(tenant *entity.Tenant) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO tenants (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		tenant.ID, tenant.Name, tenant.CreatedAt, tenant.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID fetches a tenant by id. Returns nil when absent.
func (r *TenantRepo) GetByID(id string) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, created_at, updated_at FROM tenants WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// List lists tenants with pagination.
func (r *TenantRepo) List(limit, offset int) ([]*entity.Tenant, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, created_at, updated_at FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
