package entity

import "time"

// User roles. Owner and admin are interchangeable for branch access (both bypass
// explicit assignments inside their own tenant); superadmin crosses tenants.
const (
	RoleSuperAdmin = "superadmin"
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleStaff      = "staff"
)

// User is a staff member of a tenant.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string // superadmin | owner | admin | staff
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the authenticated identity derived from JWT claims. It carries just
// what authorization and branch resolution need, without a DB round trip.
type Actor struct {
	UserID   string
	TenantID string
	Role     string
}

// IsSuperAdmin reports whether the actor crosses tenant boundaries.
func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// IsTenantAdmin reports whether the actor has implicit access to every branch
// of their own tenant.
func (a Actor) IsTenantAdmin() bool {
	return a.Role == RoleOwner || a.Role == RoleAdmin
}
