package branches

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
)

type memBranchRepo struct {
	byID map[string]*entity.Branch
}

func (r *memBranchRepo) Create(b *entity.Branch) error             { r.byID[b.ID] = b; return nil }
func (r *memBranchRepo) GetByID(id string) (*entity.Branch, error) { return r.byID[id], nil }
func (r *memBranchRepo) Update(b *entity.Branch) error             { r.byID[b.ID] = b; return nil }

func (r *memBranchRepo) ListByTenant(tenantID string, includeDeleted bool) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.byID {
		if b.TenantID != tenantID {
			continue
		}
		if b.IsDeleted() && !includeDeleted {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBranchRepo) ListByIDs(ids []string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, id := range ids {
		if b, ok := r.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBranchRepo) SoftDelete(id string, at time.Time) error {
	if b, ok := r.byID[id]; ok {
		b.DeletedAt = &at
	}
	return nil
}

type memAssignments struct {
	byUser map[string][]string
}

func (r *memAssignments) Exists(userID, branchID string) (bool, error) {
	for _, id := range r.byUser[userID] {
		if id == branchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAssignments) ListByUser(userID string) ([]*entity.UserBranch, error) {
	var out []*entity.UserBranch
	for _, id := range r.byUser[userID] {
		out = append(out, &entity.UserBranch{UserID: userID, BranchID: id})
	}
	return out, nil
}

// memCache counts hits and invalidations so tests can assert the read-through
// behavior without Redis.
type memCache struct {
	entries      map[string][]*entity.Branch
	sets         int
	invalidation int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]*entity.Branch{}} }

func (c *memCache) GetTenantBranches(_ context.Context, tenantID string) ([]*entity.Branch, error) {
	return c.entries[tenantID], nil
}

func (c *memCache) SetTenantBranches(_ context.Context, tenantID string, branches []*entity.Branch) error {
	c.entries[tenantID] = branches
	c.sets++
	return nil
}

func (c *memCache) Invalidate(_ context.Context, tenantID string) error {
	delete(c.entries, tenantID)
	c.invalidation++
	return nil
}

type branchFixture struct {
	uc          *UseCase
	repo        *memBranchRepo
	assignments *memAssignments
	cache       *memCache
}

func newBranchFixture() *branchFixture {
	f := &branchFixture{
		repo:        &memBranchRepo{byID: map[string]*entity.Branch{}},
		assignments: &memAssignments{byUser: map[string][]string{}},
		cache:       newMemCache(),
	}
	f.uc = NewUseCase(f.repo, f.assignments, f.cache)
	return f
}

func (f *branchFixture) seed(id, tenantID string, isDefault bool) *entity.Branch {
	b := &entity.Branch{ID: id, TenantID: tenantID, Code: id, Name: "Branch " + id, IsActive: true, IsDefault: isDefault}
	f.repo.byID[id] = b
	return b
}

func admin() entity.Actor {
	return entity.Actor{UserID: "admin-1", TenantID: "tenant-1", Role: entity.RoleAdmin}
}

func staffMember() entity.Actor {
	return entity.Actor{UserID: "staff-1", TenantID: "tenant-1", Role: entity.RoleStaff}
}

func TestBranchCreate_StaffForbidden(t *testing.T) {
	f := newBranchFixture()
	_, err := f.uc.Create(context.Background(), staffMember(), dto.CreateBranchRequest{Code: "N", Name: "North"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBranchCreate_InvalidatesCache(t *testing.T) {
	f := newBranchFixture()
	resp, err := f.uc.Create(context.Background(), admin(), dto.CreateBranchRequest{Code: "N", Name: "North"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 1, f.cache.invalidation)
}

func TestBranchList_AdminSeesDeletedStaffDoesNot(t *testing.T) {
	f := newBranchFixture()
	f.seed("b1", "tenant-1", true)
	gone := f.seed("b2", "tenant-1", false)
	now := time.Now()
	gone.DeletedAt = &now
	f.assignments.byUser["staff-1"] = []string{"b1", "b2"}

	adminList, err := f.uc.List(context.Background(), admin())
	require.NoError(t, err)
	assert.Len(t, adminList.Items, 2, "admins see soft-deleted branches")

	staffList, err := f.uc.List(context.Background(), staffMember())
	require.NoError(t, err)
	require.Len(t, staffList.Items, 1, "staff never see soft-deleted branches")
	assert.Equal(t, "b1", staffList.Items[0].ID)
}

func TestBranchList_ReadsThroughCache(t *testing.T) {
	f := newBranchFixture()
	f.seed("b1", "tenant-1", true)

	_, err := f.uc.List(context.Background(), admin())
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets, "miss populates the cache")

	// Remove from the repo; the cached list must still be served.
	delete(f.repo.byID, "b1")
	list, err := f.uc.List(context.Background(), admin())
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, f.cache.sets, "hit does not rewrite the cache")
}

func TestBranchAvailable_ExcludesDeletedAndInactive(t *testing.T) {
	f := newBranchFixture()
	f.seed("b1", "tenant-1", true)
	inactive := f.seed("b2", "tenant-1", false)
	inactive.IsActive = false
	gone := f.seed("b3", "tenant-1", false)
	now := time.Now()
	gone.DeletedAt = &now

	list, err := f.uc.Available(context.Background(), admin())
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "b1", list.Items[0].ID)
}

func TestBranchAvailable_StaffLimitedToAssignments(t *testing.T) {
	f := newBranchFixture()
	f.seed("b1", "tenant-1", true)
	f.seed("b2", "tenant-1", false)
	f.assignments.byUser["staff-1"] = []string{"b2"}

	list, err := f.uc.Available(context.Background(), staffMember())
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "b2", list.Items[0].ID)
}

func TestBranchDelete_DefaultBranchRefused(t *testing.T) {
	f := newBranchFixture()
	f.seed("b1", "tenant-1", true)

	err := f.uc.Delete(context.Background(), admin(), "b1")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "branch_id")

	b, _ := f.repo.GetByID("b1")
	assert.False(t, b.IsDeleted())
}

func TestBranchDelete_SoftDeletesAndInvalidates(t *testing.T) {
	f := newBranchFixture()
	f.seed("b1", "tenant-1", true)
	f.seed("b2", "tenant-1", false)

	require.NoError(t, f.uc.Delete(context.Background(), admin(), "b2"))
	b, _ := f.repo.GetByID("b2")
	assert.True(t, b.IsDeleted(), "delete is soft")
	assert.Equal(t, 1, f.cache.invalidation)

	// Idempotent: deleting again is a no-op, not an error.
	require.NoError(t, f.uc.Delete(context.Background(), admin(), "b2"))
}

func TestBranchGetByID_CrossTenantIsNotFound(t *testing.T) {
	f := newBranchFixture()
	f.seed("theirs", "tenant-2", false)

	_, err := f.uc.GetByID(context.Background(), admin(), "theirs")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBranchGetByID_DeletedInvisibleToStaff(t *testing.T) {
	f := newBranchFixture()
	gone := f.seed("b1", "tenant-1", false)
	now := time.Now()
	gone.DeletedAt = &now

	_, err := f.uc.GetByID(context.Background(), staffMember(), "b1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := f.uc.GetByID(context.Background(), admin(), "b1")
	require.NoError(t, err)
	assert.NotNil(t, resp.DeletedAt)
}
