package planner

import (
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/packing"
)

// StopAggregator folds approved pickup orders into physical stops. Orders
// sharing a byte-identical location key (label plus exact coordinates) merge
// into one stop; two adjacent but distinctly labeled addresses stay separate.
type StopAggregator struct {
	estimator packing.Estimator
}

func NewStopAggregator(estimator packing.Estimator) *StopAggregator {
	return &StopAggregator{estimator: estimator}
}

// GroupIntoStops walks orders in input order and returns stops in first-seen
// order. The first order at a location seeds the stop's farmer display
// fields; later orders at the same location only add load.
//
// Orders without a pickup location are dropped: an order with no known
// geography cannot be routed, and one bad order must not abort planning for
// the whole shift. Likewise an order whose item is missing from the catalog
// still gets routed, it just contributes zero containers.
func (a *StopAggregator) GroupIntoStops(orders []orderrepo.PickupOrder, items map[domain.ItemID]catalog.Item, sizes []catalog.ContainerSize) []domain.Stop {
	index := make(map[string]int, len(orders))
	stops := make([]domain.Stop, 0, len(orders))

	for _, o := range orders {
		if o.Location == nil {
			continue
		}
		key := o.Location.Key()
		i, ok := index[key]
		if !ok {
			i = len(stops)
			index[key] = i
			stops = append(stops, domain.Stop{
				Location:   *o.Location,
				FarmerID:   o.FarmerID,
				FarmerName: o.FarmerName,
				FarmName:   o.FarmName,
			})
		}

		quantityKg := o.ResolveQuantityKg()
		containers := a.estimator.EstimateContainers(items[o.ItemID], quantityKg, sizes)
		stops[i].AddOrder(o.ID, containers, quantityKg)
	}
	return stops
}
