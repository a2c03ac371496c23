package entity

import "time"

// Tenant is an isolated customer account; every other entity is scoped by TenantID.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
