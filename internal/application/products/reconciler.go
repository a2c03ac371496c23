package products

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tijara-app/tijara-api/internal/domain"
	"github.com/tijara-app/tijara-api/internal/domain/entity"
	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

// reconcileOptions tunes one reconciliation pass. BranchStock/BranchPrices are
// explicit per-branch overrides keyed by branch id. On the creation path a new
// assignment without an explicit stock falls back to the product's default
// quantity; on the update path it starts at zero. That asymmetry is intentional:
// stock entered at product creation describes an initial inventory, stock for a
// branch added later has to be counted in before it exists.
type reconcileOptions struct {
	branchStock  map[string]decimal.Decimal
	branchPrices map[string]decimal.Decimal
	forceRemove  bool
	creation     bool
}

// reconcileAssignments drives a product's branch assignments to exactly the
// target set. current must be the rows already locked by the surrounding
// transaction. The whole removal set is validated against sales history before
// anything is written, so a blocked removal leaves the product untouched and
// names every offending branch at once.
func reconcileAssignments(
	pivotRepo repository.ProductBranchRepository,
	sales repository.SalesReader,
	product *entity.Product,
	current []*entity.ProductBranch,
	target []string,
	opts reconcileOptions,
	now time.Time,
) error {
	if len(target) == 0 {
		return domain.NewValidationError("branch_ids", "a product must be assigned to at least one branch")
	}

	targetSet := make(map[string]bool, len(target))
	for _, id := range target {
		targetSet[id] = true
	}
	currentByID := make(map[string]*entity.ProductBranch, len(current))
	for _, row := range current {
		currentByID[row.BranchID] = row
	}

	var toAdd, toRemove []string
	for id := range targetSet {
		if _, ok := currentByID[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentByID {
		if !targetSet[id] {
			toRemove = append(toRemove, id)
		}
	}

	// Validate every removal before mutating anything.
	if !opts.forceRemove {
		var blocked domain.ValidationError
		for _, id := range toRemove {
			hasSales, err := sales.HasSalesAtBranch(product.ID, id)
			if err != nil {
				return fmt.Errorf("check sales at branch %s: %w", id, err)
			}
			if hasSales {
				blocked.Add("remove_branches", fmt.Sprintf("branch %s has recorded sales; set force_remove to remove anyway", id))
			}
		}
		if !blocked.Empty() {
			return &blocked
		}
	}

	for _, id := range toAdd {
		stock := decimal.Zero
		if opts.creation {
			stock = product.StockQuantity
		}
		if v, ok := opts.branchStock[id]; ok {
			stock = v
		}
		row := &entity.ProductBranch{
			ProductID:     product.ID,
			BranchID:      id,
			StockQuantity: stock,
			MinStockLevel: product.MinStockLevel,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if v, ok := opts.branchPrices[id]; ok {
			price := v
			row.Price = &price
		}
		if err := pivotRepo.Create(row); err != nil {
			return err
		}
	}

	for _, id := range toRemove {
		if err := pivotRepo.Delete(product.ID, id); err != nil {
			return err
		}
	}

	// Branches staying assigned can still receive stock/price updates in the
	// same request, independently of the add/remove diff.
	for id, row := range currentByID {
		if !targetSet[id] {
			continue
		}
		changed := false
		if v, ok := opts.branchStock[id]; ok && !row.StockQuantity.Equal(v) {
			row.StockQuantity = v
			changed = true
		}
		if v, ok := opts.branchPrices[id]; ok {
			if row.Price == nil || !row.Price.Equal(v) {
				price := v
				row.Price = &price
				changed = true
			}
		}
		if changed {
			row.UpdatedAt = now
			if err := pivotRepo.Update(row); err != nil {
				return err
			}
		}
	}

	return nil
}
