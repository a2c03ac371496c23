package entity

import "time"

// Branch is a physical or logical business location under a tenant.
// Branches are never hard-deleted; DeletedAt marks a soft delete. Tenant admins
// still see soft-deleted branches, regular staff do not.
type Branch struct {
	ID        string
	TenantID  string
	Code      string // unique per tenant
	Name      string
	IsActive  bool
	IsDefault bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted reports whether the branch has been soft-deleted.
func (b *Branch) IsDeleted() bool {
	return b.DeletedAt != nil
}
