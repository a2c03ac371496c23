package dto

import "time"

// CreateBranchRequest input for creating a branch.
type CreateBranchRequest struct {
	Code      string `json:"code" validate:"required,min=1,max=50"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	IsDefault bool   `json:"is_default"`
}

// UpdateBranchRequest input for a partial branch update.
type UpdateBranchRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	IsActive  *bool   `json:"is_active"`
	IsDefault *bool   `json:"is_default"`
}

// BranchResponse branch output. DeletedAt is only ever non-nil for tenant
// admins; staff listings never contain soft-deleted branches.
type BranchResponse struct {
	ID        string     `json:"id"`
	TenantID  string     `json:"tenant_id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	IsDefault bool       `json:"is_default"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BranchListResponse branch listing.
type BranchListResponse struct {
	Items []BranchResponse `json:"items"`
}

// SetActiveBranchRequest input for switching the caller's working branch.
type SetActiveBranchRequest struct {
	BranchID string `json:"branch_id" validate:"required"`
}

// ActiveBranchResponse the caller's resolved working branch. Empty BranchID
// with All=false means tenant-wide scope.
type ActiveBranchResponse struct {
	BranchID string `json:"branch_id,omitempty"`
	All      bool   `json:"all"`
}
