package branchctx

import (
	"context"

	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

// AllBranches is the sentinel a privileged caller sends to suppress branch
// filtering. Non-admin callers sending it are silently resolved through the
// normal chain instead.
const AllBranches = "all"

// BranchContext is the branch scope a request operates under, resolved once
// per request and threaded explicitly. Empty BranchID with All=false means
// tenant-wide scope (no branch filtering) — that is a policy, not an error.
type BranchContext struct {
	BranchID string
	All      bool
}

// Scoped reports whether a single branch is in scope.
func (bc BranchContext) Scoped() bool {
	return bc.BranchID != "" && !bc.All
}

// Store persists and caches a user's working-branch selection. GetSelection is
// the durable per-user choice (written by the branch-switch endpoint);
// GetCached is the short-lived 24h cache consulted after it. Both return empty
// string on a miss.
type Store interface {
	GetSelection(ctx context.Context, userID string) (string, error)
	SetSelection(ctx context.Context, userID, branchID string) error
	GetCached(ctx context.Context, userID string) (string, error)
	SetCached(ctx context.Context, userID, branchID string) error
}

// BranchLister is the slice of the branch repository the fallback pick needs.
type BranchLister interface {
	ListByIDs(ids []string) ([]*entity.Branch, error)
}

// Resolver determines the active branch for a user from a priority chain:
// explicit request parameter, stored selection, cached value, deterministic
// first assigned branch. The last step writes its result back into the store
// before returning, so resolving is not free of side effects.
type Resolver struct {
	store          Store
	userBranchRepo repository.UserBranchRepository
	branches       BranchLister
}

// NewResolver builds the resolver.
func NewResolver(store Store, userBranchRepo repository.UserBranchRepository, branches BranchLister) *Resolver {
	return &Resolver{store: store, userBranchRepo: userBranchRepo, branches: branches}
}

// Resolve walks the chain, first hit wins, no merging. The "all" sentinel is
// honored only for superadmins and tenant admins; other roles fall through the
// chain as if it were absent.
func (r *Resolver) Resolve(ctx context.Context, actor entity.Actor, requested string) (BranchContext, error) {
	if requested == AllBranches {
		if actor.IsSuperAdmin() || actor.IsTenantAdmin() {
			return BranchContext{All: true}, nil
		}
		requested = ""
	}
	if requested != "" {
		return BranchContext{BranchID: requested}, nil
	}

	if id, err := r.store.GetSelection(ctx, actor.UserID); err == nil && id != "" {
		return BranchContext{BranchID: id}, nil
	}
	if id, err := r.store.GetCached(ctx, actor.UserID); err == nil && id != "" {
		return BranchContext{BranchID: id}, nil
	}

	id, err := r.firstAssignedBranch(actor.UserID)
	if err != nil {
		return BranchContext{}, err
	}
	if id != "" {
		// Write-back so the next request skips the DB lookup. A failed write
		// is not worth failing the request over.
		_ = r.store.SetSelection(ctx, actor.UserID, id)
		_ = r.store.SetCached(ctx, actor.UserID, id)
		return BranchContext{BranchID: id}, nil
	}

	// No branch anywhere in the chain: tenant-wide scope.
	return BranchContext{}, nil
}

// firstAssignedBranch picks the user's deterministic first branch: the
// default branch when one is assigned, otherwise the lowest branch id.
// Deleted and inactive branches never win.
func (r *Resolver) firstAssignedBranch(userID string) (string, error) {
	assignments, err := r.userBranchRepo.ListByUser(userID)
	if err != nil {
		return "", err
	}
	if len(assignments) == 0 {
		return "", nil
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.BranchID)
	}
	branches, err := r.branches.ListByIDs(ids)
	if err != nil {
		return "", err
	}
	var best *entity.Branch
	for _, b := range branches {
		if b.IsDeleted() || !b.IsActive {
			continue
		}
		if best == nil || betterFirstBranch(b, best) {
			best = b
		}
	}
	if best == nil {
		return "", nil
	}
	return best.ID, nil
}

func betterFirstBranch(candidate, current *entity.Branch) bool {
	if candidate.IsDefault != current.IsDefault {
		return candidate.IsDefault
	}
	return candidate.ID < current.ID
}

// Remember stores an explicit branch switch in both the selection and the
// cache. The caller is responsible for the access check.
func (r *Resolver) Remember(ctx context.Context, userID, branchID string) error {
	if err := r.store.SetSelection(ctx, userID, branchID); err != nil {
		return err
	}
	return r.store.SetCached(ctx, userID, branchID)
}
