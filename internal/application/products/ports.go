package products

import (
	"context"

	"github.com/tijara-app/tijara-api/internal/domain/repository"
)

// TxRunner executes a function inside one database transaction, handing it
// repositories bound to that transaction. Guarantees atomicity for product
// writes and branch assignment reconciliation.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		pivotRepo repository.ProductBranchRepository,
		sales repository.SalesReader,
	) error) error
}
