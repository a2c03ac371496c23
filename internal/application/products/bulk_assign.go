package products

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tijara-app/tijara-api/internal/application/dto"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
)

// BulkAssign assigns one branch to many products at once. Branch access is
// validated once, not per product. Products already assigned (or unknown) are
// skipped and reported; partial success is the normal outcome, not an error,
// so no transaction spans the loop.
func (s *Service) BulkAssign(ctx context.Context, actor entity.Actor, in dto.BulkAssignRequest) (*dto.BulkAssignResponse, error) {
	if len(in.ProductIDs) == 0 {
		return nil, domain.NewValidationError("product_ids", "at least one product is required")
	}
	if in.BranchID == "" {
		return nil, domain.NewValidationError("branch_id", "branch_id is required")
	}

	branch, err := s.branchRepo.GetByID(in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.IsDeleted() || (!actor.IsSuperAdmin() && branch.TenantID != actor.TenantID) {
		return nil, domain.ErrNotFound
	}
	ok, err := s.access.CanAccessBranch(actor, in.BranchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	out := &dto.BulkAssignResponse{SkippedProducts: []dto.SkippedProduct{}}
	for _, productID := range in.ProductIDs {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if product == nil || (!actor.IsSuperAdmin() && product.TenantID != actor.TenantID) {
			out.Skipped++
			out.SkippedProducts = append(out.SkippedProducts, dto.SkippedProduct{ProductID: productID, Reason: "product not found"})
			continue
		}
		existing, err := s.pivotRepo.Get(productID, in.BranchID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			out.Skipped++
			out.SkippedProducts = append(out.SkippedProducts, dto.SkippedProduct{ProductID: productID, Reason: "already assigned to branch"})
			continue
		}
		row := &entity.ProductBranch{
			ProductID:     productID,
			BranchID:      in.BranchID,
			StockQuantity: decimal.Zero,
			MinStockLevel: product.MinStockLevel,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.pivotRepo.Create(row); err != nil {
			// A concurrent assignment hitting the unique pair is a skip, not a failure.
			if errors.Is(err, domain.ErrDuplicate) {
				out.Skipped++
				out.SkippedProducts = append(out.SkippedProducts, dto.SkippedProduct{ProductID: productID, Reason: "already assigned to branch"})
				continue
			}
			return nil, err
		}
		out.Assigned++
	}
	return out, nil
}
