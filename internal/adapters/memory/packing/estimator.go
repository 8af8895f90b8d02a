package packing

import (
	"math"

	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
)

// Estimator implements packing.Estimator by dividing the quantity across the
// item's assigned container size, rounding up. Anything unresolvable (no
// container assignment, unknown size, non-positive capacity or quantity)
// estimates as zero containers so bad catalog data never blocks planning.
type Estimator struct{}

func NewEstimator() Estimator {
	return Estimator{}
}

func (Estimator) EstimateContainers(item catalog.Item, quantityKg float64, sizes []catalog.ContainerSize) int {
	if quantityKg <= 0 || item.ContainerSizeID == nil {
		return 0
	}
	var capacityKg float64
	for _, cs := range sizes {
		if cs.ID == *item.ContainerSizeID {
			capacityKg = cs.CapacityKg
			break
		}
	}
	if capacityKg <= 0 {
		return 0
	}
	return int(math.Ceil(quantityKg / capacityKg))
}
