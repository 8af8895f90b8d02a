package packing

import "github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"

// Estimator predicts how many containers one order's quantity of an item
// occupies. Estimates feed planning rollups only, so an estimator must never
// fail: when the item, its container assignment or the size data is missing
// it returns 0 and the order still gets routed, just unsized.
type Estimator interface {
	EstimateContainers(item catalog.Item, quantityKg float64, sizes []catalog.ContainerSize) int
}
