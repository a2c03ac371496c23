package branchctx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tijara-app/tijara-api/internal/domain/entity"
)

type memStore struct {
	selection map[string]string
	cached    map[string]string
}

func newMemStore() *memStore {
	return &memStore{selection: map[string]string{}, cached: map[string]string{}}
}

func (s *memStore) GetSelection(_ context.Context, userID string) (string, error) {
	return s.selection[userID], nil
}
func (s *memStore) SetSelection(_ context.Context, userID, branchID string) error {
	s.selection[userID] = branchID
	return nil
}
func (s *memStore) GetCached(_ context.Context, userID string) (string, error) {
	return s.cached[userID], nil
}
func (s *memStore) SetCached(_ context.Context, userID, branchID string) error {
	s.cached[userID] = branchID
	return nil
}

type stubAssignments struct {
	byUser map[string][]string
}

func (r *stubAssignments) Exists(userID, branchID string) (bool, error) { return false, nil }
func (r *stubAssignments) ListByUser(userID string) ([]*entity.UserBranch, error) {
	var list []*entity.UserBranch
	for _, branchID := range r.byUser[userID] {
		list = append(list, &entity.UserBranch{UserID: userID, BranchID: branchID})
	}
	return list, nil
}

type stubBranches struct {
	byID map[string]*entity.Branch
}

func (r *stubBranches) ListByIDs(ids []string) ([]*entity.Branch, error) {
	var list []*entity.Branch
	for _, id := range ids {
		if b, ok := r.byID[id]; ok {
			list = append(list, b)
		}
	}
	return list, nil
}

type chainFixture struct {
	store       *memStore
	assignments *stubAssignments
	branches    *stubBranches
	resolver    *Resolver
}

func newChainFixture() *chainFixture {
	f := &chainFixture{
		store:       newMemStore(),
		assignments: &stubAssignments{byUser: map[string][]string{}},
		branches:    &stubBranches{byID: map[string]*entity.Branch{}},
	}
	f.resolver = NewResolver(f.store, f.assignments, f.branches)
	return f
}

// assign registers a user/branch assignment and makes sure the branch exists.
func (f *chainFixture) assign(userID, branchID string) {
	f.assignments.byUser[userID] = append(f.assignments.byUser[userID], branchID)
	if _, ok := f.branches.byID[branchID]; !ok {
		f.addBranch(branchID, false)
	}
}

func (f *chainFixture) addBranch(id string, isDefault bool) *entity.Branch {
	b := &entity.Branch{ID: id, TenantID: "tenant-1", IsActive: true, IsDefault: isDefault}
	f.branches.byID[id] = b
	return b
}

func staff() entity.Actor {
	return entity.Actor{UserID: "user-1", TenantID: "tenant-1", Role: entity.RoleStaff}
}

func owner() entity.Actor {
	return entity.Actor{UserID: "user-1", TenantID: "tenant-1", Role: entity.RoleOwner}
}

func TestResolve_RequestParameterWins(t *testing.T) {
	f := newChainFixture()
	f.store.selection["user-1"] = "stored"
	f.assign("user-1", "fallback")

	bc, err := f.resolver.Resolve(context.Background(), staff(), "requested")
	require.NoError(t, err)
	assert.Equal(t, BranchContext{BranchID: "requested"}, bc)
}

func TestResolve_StoredSelectionBeatsCache(t *testing.T) {
	f := newChainFixture()
	f.store.selection["user-1"] = "stored"
	f.store.cached["user-1"] = "cached"

	bc, err := f.resolver.Resolve(context.Background(), staff(), "")
	require.NoError(t, err)
	assert.Equal(t, "stored", bc.BranchID)
}

func TestResolve_CacheBeatsFirstAssigned(t *testing.T) {
	f := newChainFixture()
	f.store.cached["user-1"] = "cached"
	f.assign("user-1", "fallback")

	bc, err := f.resolver.Resolve(context.Background(), staff(), "")
	require.NoError(t, err)
	assert.Equal(t, "cached", bc.BranchID)
}

// The last chain step resolves the first assigned branch and writes it back so
// the next request hits the store instead of the DB.
func TestResolve_FirstAssignedWithWriteBack(t *testing.T) {
	f := newChainFixture()
	f.assign("user-1", "b-default")

	bc, err := f.resolver.Resolve(context.Background(), staff(), "")
	require.NoError(t, err)
	assert.Equal(t, "b-default", bc.BranchID)
	assert.Equal(t, "b-default", f.store.selection["user-1"], "selection written back")
	assert.Equal(t, "b-default", f.store.cached["user-1"], "cache written back")
}

// With several assignments the fallback is deterministic: the default branch
// wins, and without a default the lowest branch id does.
func TestResolve_FirstAssignedTieBreak(t *testing.T) {
	f := newChainFixture()
	f.assign("user-1", "b2")
	f.assign("user-1", "b9")
	f.assign("user-1", "b5")
	f.branches.byID["b9"].IsDefault = true

	bc, err := f.resolver.Resolve(context.Background(), staff(), "")
	require.NoError(t, err)
	assert.Equal(t, "b9", bc.BranchID, "default-flagged branch wins over lower ids")
}

func TestResolve_FirstAssignedLowestIDWithoutDefault(t *testing.T) {
	f := newChainFixture()
	f.assign("user-1", "b7")
	f.assign("user-1", "b2")
	f.assign("user-1", "b5")

	bc, err := f.resolver.Resolve(context.Background(), staff(), "")
	require.NoError(t, err)
	assert.Equal(t, "b2", bc.BranchID, "no default: lowest branch id wins")
}

// Deleted and inactive branches never win the fallback, even when they carry
// the default flag or the lowest id.
func TestResolve_FirstAssignedSkipsDeletedAndInactive(t *testing.T) {
	f := newChainFixture()
	f.assign("user-1", "b1")
	f.assign("user-1", "b2")
	f.assign("user-1", "b3")
	now := time.Now()
	f.branches.byID["b1"].DeletedAt = &now
	f.branches.byID["b1"].IsDefault = true
	f.branches.byID["b2"].IsActive = false

	bc, err := f.resolver.Resolve(context.Background(), staff(), "")
	require.NoError(t, err)
	assert.Equal(t, "b3", bc.BranchID)
}

func TestResolve_NoBranchAnywhereMeansTenantWide(t *testing.T) {
	f := newChainFixture()

	bc, err := f.resolver.Resolve(context.Background(), owner(), "")
	require.NoError(t, err)
	assert.Equal(t, BranchContext{}, bc)
	assert.False(t, bc.Scoped())
}

func TestResolve_AllSentinelForAdminRoles(t *testing.T) {
	f := newChainFixture()

	bc, err := f.resolver.Resolve(context.Background(), owner(), AllBranches)
	require.NoError(t, err)
	assert.True(t, bc.All)
	assert.False(t, bc.Scoped())
}

// A non-admin sending "all" does not get tenant-wide scope and does not get an
// error either: the sentinel is ignored and the chain resolves normally.
func TestResolve_AllSentinelIgnoredForStaff(t *testing.T) {
	f := newChainFixture()
	f.store.selection["user-1"] = "stored"

	bc, err := f.resolver.Resolve(context.Background(), staff(), AllBranches)
	require.NoError(t, err)
	assert.False(t, bc.All)
	assert.Equal(t, "stored", bc.BranchID)
}

func TestRemember_WritesSelectionAndCache(t *testing.T) {
	f := newChainFixture()

	require.NoError(t, f.resolver.Remember(context.Background(), "user-1", "b7"))
	assert.Equal(t, "b7", f.store.selection["user-1"])
	assert.Equal(t, "b7", f.store.cached["user-1"])
}
