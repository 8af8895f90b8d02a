package domain

// Stop is one physical pickup location visited during a trip. It aggregates
// every approved farmer order sharing that exact location. Stops exist only
// transiently during planning; they are embedded into a Trip at finalization.
type Stop struct {
	Location PickupLocation

	// Display identity, taken from the first order seen at this location.
	// When several farmers share one location (a cooperative yard), the stop
	// still shows one farmer; the full set is recoverable via OrderIDs.
	FarmerID   FarmerID
	FarmerName string
	FarmName   string

	// OrderIDs lists constituent orders in first-seen order.
	OrderIDs []OrderID

	// Expected load figures are running sums over constituent orders.
	// They are only ever added to during aggregation, never recomputed by
	// subtraction.
	ExpectedContainers int
	ExpectedWeightKg   float64
}

// AddOrder appends an order's contribution to the stop.
func (s *Stop) AddOrder(id OrderID, containers int, weightKg float64) {
	s.OrderIDs = append(s.OrderIDs, id)
	s.ExpectedContainers += containers
	s.ExpectedWeightKg += weightKg
}
