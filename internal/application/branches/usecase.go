package branches

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

// Cache holds a tenant's branch list for read paths that hit it often
// (available-branches, listings). Implementations return nil on a miss.
type Cache interface {
	GetTenantBranches(ctx context.Context, tenantID string) ([]*entity.Branch, error)
	SetTenantBranches(ctx context.Context, tenantID string, branches []*entity.Branch) error
	Invalidate(ctx context.Context, tenantID string) error
}

// UseCase branch CRUD. Creation and edits are tenant-admin operations; deletes
// are soft only. Every write invalidates the tenant branch cache.
type UseCase struct {
	repo           repository.BranchRepository
	userBranchRepo repository.UserBranchRepository
	cache          Cache
}

// NewUseCase builds the use case.
func NewUseCase(repo repository.BranchRepository, userBranchRepo repository.UserBranchRepository, cache Cache) *UseCase {
	return &UseCase{repo: repo, userBranchRepo: userBranchRepo, cache: cache}
}

// Create creates a branch. A duplicate code within the tenant maps to
// ErrDuplicate via the unique constraint.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if !actor.IsSuperAdmin() && !actor.IsTenantAdmin() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		TenantID:  actor.TenantID,
		Code:      in.Code,
		Name:      in.Name,
		IsActive:  true,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(branch); err != nil {
		return nil, err
	}
	_ = uc.cache.Invalidate(ctx, actor.TenantID)
	return toBranchResponse(branch), nil
}

// GetByID returns a branch in the actor's tenant. Soft-deleted branches are
// visible to tenant admins only.
func (uc *UseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.BranchResponse, error) {
	branch, err := uc.ownedBranch(actor, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List returns the branches the actor can see: tenant admins get every branch
// (soft-deleted included), staff get only their assigned, active ones.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor) (*dto.BranchListResponse, error) {
	if actor.IsSuperAdmin() || actor.IsTenantAdmin() {
		branches, err := uc.tenantBranches(ctx, actor.TenantID)
		if err != nil {
			return nil, err
		}
		return toBranchList(branches), nil
	}
	return uc.assignedBranches(ctx, actor)
}

// Available returns the branches the actor may assign products to. Same
// visibility as List, minus soft-deleted and inactive rows for everyone.
func (uc *UseCase) Available(ctx context.Context, actor entity.Actor) (*dto.BranchListResponse, error) {
	var branches []*entity.Branch
	var err error
	if actor.IsSuperAdmin() || actor.IsTenantAdmin() {
		branches, err = uc.tenantBranches(ctx, actor.TenantID)
		if err != nil {
			return nil, err
		}
	} else {
		list, err := uc.assignedBranches(ctx, actor)
		if err != nil {
			return nil, err
		}
		return list, nil
	}
	usable := make([]*entity.Branch, 0, len(branches))
	for _, b := range branches {
		if b.IsActive && !b.IsDeleted() {
			usable = append(usable, b)
		}
	}
	return toBranchList(usable), nil
}

// Update applies a partial branch update (tenant admins only).
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if !actor.IsSuperAdmin() && !actor.IsTenantAdmin() {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.ownedBranch(actor, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		branch.Name = *in.Name
	}
	if in.IsActive != nil {
		branch.IsActive = *in.IsActive
	}
	if in.IsDefault != nil {
		branch.IsDefault = *in.IsDefault
	}
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(branch); err != nil {
		return nil, err
	}
	_ = uc.cache.Invalidate(ctx, actor.TenantID)
	return toBranchResponse(branch), nil
}

// Delete soft-deletes a branch (tenant admins only). The default branch cannot
// be deleted while it is default.
func (uc *UseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.IsSuperAdmin() && !actor.IsTenantAdmin() {
		return domain.ErrForbidden
	}
	branch, err := uc.ownedBranch(actor, id)
	if err != nil {
		return err
	}
	if branch.IsDefault {
		return domain.NewValidationError("branch_id", "the default branch cannot be deleted; assign another default first")
	}
	if branch.IsDeleted() {
		return nil
	}
	if err := uc.repo.SoftDelete(branch.ID, time.Now()); err != nil {
		return err
	}
	_ = uc.cache.Invalidate(ctx, actor.TenantID)
	return nil
}

// tenantBranches reads through the cache.
func (uc *UseCase) tenantBranches(ctx context.Context, tenantID string) ([]*entity.Branch, error) {
	if cached, err := uc.cache.GetTenantBranches(ctx, tenantID); err == nil && cached != nil {
		return cached, nil
	}
	branches, err := uc.repo.ListByTenant(tenantID, true)
	if err != nil {
		return nil, err
	}
	_ = uc.cache.SetTenantBranches(ctx, tenantID, branches)
	return branches, nil
}

func (uc *UseCase) assignedBranches(ctx context.Context, actor entity.Actor) (*dto.BranchListResponse, error) {
	assignments, err := uc.userBranchRepo.ListByUser(actor.UserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.BranchID)
	}
	if len(ids) == 0 {
		return &dto.BranchListResponse{Items: []dto.BranchResponse{}}, nil
	}
	branches, err := uc.repo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	visible := make([]*entity.Branch, 0, len(branches))
	for _, b := range branches {
		if b.TenantID == actor.TenantID && b.IsActive && !b.IsDeleted() {
			visible = append(visible, b)
		}
	}
	return toBranchList(visible), nil
}

func (uc *UseCase) ownedBranch(actor entity.Actor, id string) (*entity.Branch, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsSuperAdmin() && branch.TenantID != actor.TenantID {
		return nil, domain.ErrNotFound
	}
	if branch.IsDeleted() && !actor.IsSuperAdmin() && !actor.IsTenantAdmin() {
		return nil, domain.ErrNotFound
	}
	return branch, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Code:      b.Code,
		Name:      b.Name,
		IsActive:  b.IsActive,
		IsDefault: b.IsDefault,
		DeletedAt: b.DeletedAt,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBranchList(branches []*entity.Branch) *dto.BranchListResponse {
	items := make([]dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{Items: items}
}
