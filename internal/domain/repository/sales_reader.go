package repository

// SalesReader exposes the read-only sales history checks this core needs. The
// sales tables themselves are owned by the billing subsystem.
type SalesReader interface {
	HasSales(productID string) (bool, error)
	HasSalesAtBranch(productID, branchID string) (bool, error)
}
