package orderrepo

import (
	"context"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// PickupOrder is the read model the planner consumes: one approved farmer
// order with everything needed to route and size its pickup. It is produced
// by the ordering subsystem and never written back.
type PickupOrder struct {
	ID domain.OrderID

	FarmerID   domain.FarmerID
	FarmerName string
	FarmName   string

	ItemID domain.ItemID

	// Location is where the goods wait for collection; nil means the order
	// carries no usable pickup point and cannot be routed.
	Location *domain.PickupLocation

	// The three quantity measures, best first. FinalWeightKg is what was
	// actually weighed at approval, ForecastWeightKg what the farmer
	// predicted, OrderedWeightKg what the customer asked for. nil means the
	// measure was never recorded.
	FinalWeightKg    *float64
	ForecastWeightKg *float64
	OrderedWeightKg  *float64
}

// ResolveQuantityKg picks the most trustworthy of the three weight measures:
// final beats forecast beats ordered. Negative readings count as zero, and an
// order with no measure at all resolves to zero rather than failing.
func (o PickupOrder) ResolveQuantityKg() float64 {
	for _, w := range []*float64{o.FinalWeightKg, o.ForecastWeightKg, o.OrderedWeightKg} {
		if w == nil {
			continue
		}
		if *w < 0 {
			return 0
		}
		return *w
	}
	return 0
}

// Repository lists the orders a planning run must collect.
type Repository interface {
	// ListApproved returns every approved order for the key's center, date
	// and shift, in stable storage order. No approved orders is not an
	// error; the planner answers with an empty result.
	ListApproved(ctx context.Context, key domain.PlanKey) ([]PickupOrder, error)
}
