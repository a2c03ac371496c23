package repository

import "github.com/tijara-app/tijara-api/internal/domain/entity"

// UserBranchRepository reads the explicit user/branch assignments owned by the
// staff-management subsystem.
type UserBranchRepository interface {
	Exists(userID, branchID string) (bool, error)
	ListByUser(userID string) ([]*entity.UserBranch, error)
}
