package entity

// UserBranch is an explicit branch assignment for a non-admin user. Owned by the
// staff-management subsystem; read here only for authorization and branch
// resolution.
type UserBranch struct {
	UserID    string
	BranchID  string
	IsManager bool
}
