package products

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes. Deterministic iteration where ordering matters.
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	byID map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{byID: map[string]*entity.Product{}}
	for _, p := range products {
		r.byID[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.byID[id], nil
}

func (r *fakeProductRepo) GetByTenantAndSKU(tenantID, sku string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.byID[p.ID] = p
	return nil
}

func (r *fakeProductRepo) ListWithBranchInfo(filter repository.ProductFilter) ([]*entity.ProductBranchInfo, error) {
	return nil, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

type fakeBranchRepo struct {
	byID map[string]*entity.Branch
}

func newFakeBranchRepo(branches ...*entity.Branch) *fakeBranchRepo {
	r := &fakeBranchRepo{byID: map[string]*entity.Branch{}}
	for _, b := range branches {
		r.byID[b.ID] = b
	}
	return r
}

func (r *fakeBranchRepo) Create(b *entity.Branch) error { r.byID[b.ID] = b; return nil }

func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) { return r.byID[id], nil }

func (r *fakeBranchRepo) Update(b *entity.Branch) error { r.byID[b.ID] = b; return nil }

func (r *fakeBranchRepo) ListByTenant(tenantID string, includeDeleted bool) ([]*entity.Branch, error) {
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

func (r *fakeBranchRepo) ListByIDs(ids []string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, id := range ids {
		if b, ok := r.byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBranchRepo) SoftDelete(id string, at time.Time) error {
	if b, ok := r.byID[id]; ok {
		b.DeletedAt = &at
	}
	return nil
}

type fakePivotRepo struct {
	rows map[string]*entity.ProductBranch // key: productID + "|" + branchID
}

func newFakePivotRepo(rows ...*entity.ProductBranch) *fakePivotRepo {
	r := &fakePivotRepo{rows: map[string]*entity.ProductBranch{}}
	for _, row := range rows {
		r.rows[row.ProductID+"|"+row.BranchID] = row
	}
	return r
}

func (r *fakePivotRepo) Create(pb *entity.ProductBranch) error {
	key := pb.ProductID + "|" + pb.BranchID
	if _, exists := r.rows[key]; exists {
		return domain.ErrDuplicate
	}
	r.rows[key] = pb
	return nil
}

func (r *fakePivotRepo) Get(productID, branchID string) (*entity.ProductBranch, error) {
	return r.rows[productID+"|"+branchID], nil
}

func (r *fakePivotRepo) ListByProduct(productID string) ([]*entity.ProductBranch, error) {
	var out []*entity.ProductBranch
	for _, row := range r.rows {
		if row.ProductID == productID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BranchID < out[j].BranchID })
	return out, nil
}

func (r *fakePivotRepo) ListByProductForUpdate(productID string) ([]*entity.ProductBranch, error) {
	return r.ListByProduct(productID)
}

func (r *fakePivotRepo) Update(pb *entity.ProductBranch) error {
	r.rows[pb.ProductID+"|"+pb.BranchID] = pb
	return nil
}

func (r *fakePivotRepo) Delete(productID, branchID string) error {
	delete(r.rows, productID+"|"+branchID)
	return nil
}

func (r *fakePivotRepo) DeleteByProduct(productID string) error {
	for key, row := range r.rows {
		if row.ProductID == productID {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *fakePivotRepo) branchIDs(productID string) []string {
	rows, _ := r.ListByProduct(productID)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.BranchID)
	}
	return ids
}

type fakeUserBranchRepo struct {
	assignments map[string][]string // userID -> branch ids, in first-branch order
}

func newFakeUserBranchRepo() *fakeUserBranchRepo {
	return &fakeUserBranchRepo{assignments: map[string][]string{}}
}

func (r *fakeUserBranchRepo) assign(userID string, branchIDs ...string) {
	r.assignments[userID] = append(r.assignments[userID], branchIDs...)
}

func (r *fakeUserBranchRepo) Exists(userID, branchID string) (bool, error) {
	for _, id := range r.assignments[userID] {
		if id == branchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserBranchRepo) ListByUser(userID string) ([]*entity.UserBranch, error) {
	var out []*entity.UserBranch
	for _, id := range r.assignments[userID] {
		out = append(out, &entity.UserBranch{UserID: userID, BranchID: id})
	}
	return out, nil
}

type fakeBranchStore struct {
	selection map[string]string
	cached    map[string]string
}

func newFakeBranchStore() *fakeBranchStore {
	return &fakeBranchStore{selection: map[string]string{}, cached: map[string]string{}}
}

func (s *fakeBranchStore) GetSelection(_ context.Context, userID string) (string, error) {
	return s.selection[userID], nil
}

func (s *fakeBranchStore) SetSelection(_ context.Context, userID, branchID string) error {
	s.selection[userID] = branchID
	return nil
}

func (s *fakeBranchStore) GetCached(_ context.Context, userID string) (string, error) {
	return s.cached[userID], nil
}

func (s *fakeBranchStore) SetCached(_ context.Context, userID, branchID string) error {
	s.cached[userID] = branchID
	return nil
}

type fakeSalesReader struct {
	atBranch map[string]bool // productID + "|" + branchID
}

func newFakeSalesReader() *fakeSalesReader {
	return &fakeSalesReader{atBranch: map[string]bool{}}
}

func (r *fakeSalesReader) recordSale(productID, branchID string) {
	r.atBranch[productID+"|"+branchID] = true
}

func (r *fakeSalesReader) HasSales(productID string) (bool, error) {
	for key := range r.atBranch {
		if strings.HasPrefix(key, productID+"|") {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSalesReader) HasSalesAtBranch(productID, branchID string) (bool, error) {
	return r.atBranch[productID+"|"+branchID], nil
}

// fakeTxRunner runs the callback directly against the in-memory fakes; the
// atomicity guarantee itself is the real runner's concern.
type fakeTxRunner struct {
	productRepo repository.ProductRepository
	pivotRepo   repository.ProductBranchRepository
	sales       repository.SalesReader
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	pivotRepo repository.ProductBranchRepository,
	sales repository.SalesReader,
) error) error {
	return fn(t.productRepo, t.pivotRepo, t.sales)
}
