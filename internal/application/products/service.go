package products

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tijara-app/tijara-api/internal/application/access"
	"github.com/tijara-app/tijara-api/internal/application/branchctx"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
	"github.com/tijara-app/tijara-api/pkg/logger"
)

// Service covers the product operations: CRUD with branch assignment
// reconciliation, branch-scoped listing and bulk assignment. All membership
// mutations run inside one transaction via TxRunner.
type Service struct {
	txRunner       TxRunner
	productRepo    repository.ProductRepository
	branchRepo     repository.BranchRepository
	pivotRepo      repository.ProductBranchRepository
	userBranchRepo repository.UserBranchRepository
	sales          repository.SalesReader
	access         *access.Checker
	resolver       *branchctx.Resolver
	log            *logger.Logger
}

// NewService builds the product service.
func NewService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	pivotRepo repository.ProductBranchRepository,
	userBranchRepo repository.UserBranchRepository,
	sales repository.SalesReader,
	checker *access.Checker,
	resolver *branchctx.Resolver,
	log *logger.Logger,
) *Service {
	return &Service{
		txRunner:       txRunner,
		productRepo:    productRepo,
		branchRepo:     branchRepo,
		pivotRepo:      pivotRepo,
		userBranchRepo: userBranchRepo,
		sales:          sales,
		access:         checker,
		resolver:       resolver,
		log:            log,
	}
}

// Create creates a product and assigns it to the requested branches in one
// transaction. When branch_ids is omitted the actor's active branch is
// resolved and used as the target set; the request is rejected only when the
// resolver comes back empty too. Every id must pass the access check; one bad
// id fails the whole request.
func (s *Service) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if len(in.BranchIDs) == 0 {
		bc, err := s.resolver.Resolve(ctx, actor, "")
		if err != nil {
			return nil, err
		}
		if !bc.Scoped() {
			return nil, domain.NewValidationError("branch_ids", "a product must be assigned to at least one branch")
		}
		in.BranchIDs = []string{bc.BranchID}
	}
	if err := s.validateBranchBatch(actor, in.BranchIDs); err != nil {
		return nil, err
	}

	existing, _ := s.productRepo.GetByTenantAndSKU(actor.TenantID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		TenantID:      actor.TenantID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		StockQuantity: in.StockQuantity,
		MinStockLevel: in.MinStockLevel,
		IsSparePart:   in.IsSparePart,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		pivotRepo repository.ProductBranchRepository,
		sales repository.SalesReader,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		return reconcileAssignments(pivotRepo, sales, product, nil, in.BranchIDs, reconcileOptions{
			branchStock:  in.BranchStock,
			branchPrices: in.BranchPrices,
			creation:     true,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(product)
}

// GetByID returns a product with its branch assignments, scoped to the
// caller's tenant.
func (s *Service) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ProductResponse, error) {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return nil, err
	}
	return s.respond(product)
}

// Update applies a partial product update and reconciles branch membership.
// Full-replacement (branch_ids) and incremental (add_branches/remove_branches)
// modes are both applied when both are present.
func (s *Service) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return nil, err
	}

	if in.BranchIDs != nil && len(*in.BranchIDs) == 0 {
		return nil, domain.NewValidationError("branch_ids", "a product must be assigned to at least one branch")
	}
	mentioned := collectBranchIDs(in)
	if err := s.validateBranchBatch(actor, mentioned); err != nil {
		return nil, err
	}

	applyProductFields(product, in)
	now := time.Now()
	product.UpdatedAt = now

	err = s.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		pivotRepo repository.ProductBranchRepository,
		sales repository.SalesReader,
	) error {
		if err := productRepo.Update(product); err != nil {
			return err
		}
		current, err := pivotRepo.ListByProductForUpdate(product.ID)
		if err != nil {
			return err
		}
		target := targetSet(current, in)
		return reconcileAssignments(pivotRepo, sales, product, current, target, reconcileOptions{
			branchStock:  in.BranchStock,
			branchPrices: in.BranchPrices,
			forceRemove:  in.ForceRemove,
		}, now)
	})
	if err != nil {
		return nil, err
	}
	return s.respond(product)
}

// Delete hard-deletes a product and its branch rows. Refused while any sales
// history exists, at any branch.
func (s *Service) Delete(ctx context.Context, actor entity.Actor, id string) error {
	product, err := s.ownedProduct(actor, id)
	if err != nil {
		return err
	}
	hasSales, err := s.sales.HasSales(product.ID)
	if err != nil {
		return err
	}
	if hasSales {
		return domain.ErrHasSales
	}
	return s.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		pivotRepo repository.ProductBranchRepository,
		_ repository.SalesReader,
	) error {
		if err := pivotRepo.DeleteByProduct(product.ID); err != nil {
			return err
		}
		return productRepo.Delete(product.ID)
	})
}

// ListFilters narrows the product listing. The branch scope arrives separately
// as a resolved BranchContext.
type ListFilters struct {
	Search      string
	CategoryID  string
	LowStock    bool
	IsSparePart *bool
	Limit       int
	Offset      int
}

// List returns a branch-scoped product listing. With a scoped context each row
// carries that branch's stock and price; aggregates are attached either way.
func (s *Service) List(ctx context.Context, actor entity.Actor, bc branchctx.BranchContext, f ListFilters) (*dto.ProductListResponse, error) {
	filter := repository.ProductFilter{
		TenantID:    actor.TenantID,
		Search:      f.Search,
		CategoryID:  f.CategoryID,
		LowStock:    f.LowStock,
		IsSparePart: f.IsSparePart,
		Limit:       f.Limit,
		Offset:      f.Offset,
	}
	if bc.All {
		filter.AllBranches = true
	} else {
		filter.BranchID = bc.BranchID
	}

	rows, err := s.productRepo.ListWithBranchInfo(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ProductListItem{
			ID:                 row.ID,
			SKU:                row.SKU,
			Name:               row.Name,
			CategoryID:         row.CategoryID,
			SellingPrice:       row.SellingPrice,
			IsSparePart:        row.IsSparePart,
			IsActive:           row.IsActive,
			BranchStock:        row.BranchStock,
			BranchPrice:        row.BranchPrice,
			IsLowStockInBranch: row.IsLowStockInBranch,
			TotalStock:         row.TotalStock,
			BranchCount:        row.BranchCount,
			HasPriceVariance:   row.HasPriceVariance,
		})
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// BranchDetails returns the product's branch rows the caller may see: every
// row for tenant admins, only assigned branches for staff.
func (s *Service) BranchDetails(ctx context.Context, actor entity.Actor, productID string) ([]dto.ProductBranchResponse, error) {
	product, err := s.ownedProduct(actor, productID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pivotRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() && !actor.IsTenantAdmin() {
		assignments, err := s.userBranchRepo.ListByUser(actor.UserID)
		if err != nil {
			return nil, err
		}
		allowed := make(map[string]bool, len(assignments))
		for _, a := range assignments {
			allowed[a.BranchID] = true
		}
		visible := rows[:0]
		for _, row := range rows {
			if allowed[row.BranchID] {
				visible = append(visible, row)
			}
		}
		rows = visible
	}
	return s.branchResponses(rows)
}

// ownedProduct fetches a product and enforces tenant scope: a product of
// another tenant is reported as not found, not as forbidden.
func (s *Service) ownedProduct(actor entity.Actor, id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsSuperAdmin() && product.TenantID != actor.TenantID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// validateBranchBatch checks every requested branch id: it must exist in the
// actor's tenant, not be soft-deleted, and pass the access check. All-or-
// nothing; the first failure rejects the whole batch.
func (s *Service) validateBranchBatch(actor entity.Actor, ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		branch, err := s.branchRepo.GetByID(id)
		if err != nil {
			return err
		}
		if branch == nil || branch.IsDeleted() || (!actor.IsSuperAdmin() && branch.TenantID != actor.TenantID) {
			return domain.NewValidationError("branch_ids", fmt.Sprintf("branch %s not found", id))
		}
		ok, err := s.access.CanAccessBranch(actor, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrForbidden
		}
	}
	return nil
}

// targetSet computes the effective membership target for an update: the full
// replacement set when given, else the current set, plus add_branches, minus
// remove_branches.
func targetSet(current []*entity.ProductBranch, in dto.UpdateProductRequest) []string {
	set := make(map[string]bool)
	if in.BranchIDs != nil {
		for _, id := range *in.BranchIDs {
			set[id] = true
		}
	} else {
		for _, row := range current {
			set[row.BranchID] = true
		}
	}
	for _, id := range in.AddBranches {
		set[id] = true
	}
	for _, id := range in.RemoveBranches {
		delete(set, id)
	}
	target := make([]string, 0, len(set))
	for id := range set {
		target = append(target, id)
	}
	return target
}

// collectBranchIDs gathers every branch id an update request mentions for
// batch validation.
func collectBranchIDs(in dto.UpdateProductRequest) []string {
	var ids []string
	if in.BranchIDs != nil {
		ids = append(ids, *in.BranchIDs...)
	}
	ids = append(ids, in.AddBranches...)
	ids = append(ids, in.RemoveBranches...)
	return ids
}

func applyProductFields(product *entity.Product, in dto.UpdateProductRequest) {
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		product.SellingPrice = *in.SellingPrice
	}
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.IsSparePart != nil {
		product.IsSparePart = *in.IsSparePart
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
}

func (s *Service) respond(product *entity.Product) (*dto.ProductResponse, error) {
	rows, err := s.pivotRepo.ListByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	branches, err := s.branchResponses(rows)
	if err != nil {
		return nil, err
	}
	return &dto.ProductResponse{
		ID:            product.ID,
		TenantID:      product.TenantID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		CategoryID:    product.CategoryID,
		CostPrice:     product.CostPrice,
		SellingPrice:  product.SellingPrice,
		StockQuantity: product.StockQuantity,
		MinStockLevel: product.MinStockLevel,
		IsSparePart:   product.IsSparePart,
		IsActive:      product.IsActive,
		Branches:      branches,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}, nil
}

func (s *Service) branchResponses(rows []*entity.ProductBranch) ([]dto.ProductBranchResponse, error) {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.BranchID)
	}
	names := map[string]string{}
	if len(ids) > 0 {
		branches, err := s.branchRepo.ListByIDs(ids)
		if err != nil {
			return nil, err
		}
		for _, b := range branches {
			names[b.ID] = b.Name
		}
	}
	out := make([]dto.ProductBranchResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ProductBranchResponse{
			BranchID:      row.BranchID,
			BranchName:    names[row.BranchID],
			StockQuantity: row.StockQuantity,
			MinStockLevel: row.MinStockLevel,
			Price:         row.Price,
			IsActive:      row.IsActive,
			IsLowStock:    row.IsLowStock(),
		})
	}
	return out, nil
}
