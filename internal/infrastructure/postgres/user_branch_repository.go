package postgres

import (
	"context"
	"fmt"

	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

var _ repository.UserBranchRepository = (*UserBranchRepo)(nil)

// UserBranchRepo reads the branch_user assignment rows (pool or tx).
type UserBranchRepo struct {
	q Querier
}

// NewUserBranchRepository builds the adapter. Pass pool or tx (Querier).
func NewUserBranchRepository(q Querier) *UserBranchRepo {
	return &UserBranchRepo{q: q}
}

// Exists reports whether an explicit (user, branch) assignment row exists.
func (r *UserBranchRepo) Exists(userID, branchID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM branch_user WHERE user_id = $1 AND branch_id = $2)`,
		userID, branchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check branch assignment: %w", err)
	}
	return exists, nil
}

// ListByUser lists a user's branch assignments.
func (r *UserBranchRepo) ListByUser(userID string) ([]*entity.UserBranch, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT user_id, branch_id, is_manager FROM branch_user WHERE user_id = $1 ORDER BY branch_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserBranch
	for rows.Next() {
		var ub entity.UserBranch
		if err := rows.Scan(&ub.UserID, &ub.BranchID, &ub.IsManager); err != nil {
			return nil, fmt.Errorf("scan user branch: %w", err)
		}
		list = append(list, &ub)
	}
	return list, rows.Err()
}
