package planner

import (
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// PlanRequest asks for one planning run: all approved farmer orders for the
// center's shift on the date, routed from Base.
type PlanRequest struct {
	Center domain.CenterID
	// Date carries date-only semantics; the service truncates it.
	Date  time.Time
	Shift domain.Shift

	// Base is the warehouse location trips leave from and return to.
	Base domain.GeoPoint

	// RequestedBy names who or what triggered planning, for the audit trail.
	// Empty means "system".
	RequestedBy string
}

// PlanResult is the outcome of a planning call. Created is true only when
// this call stored the plan; a re-run or a lost race returns the stored
// trips with Created false.
type PlanResult struct {
	Trips   []domain.Trip
	Created bool
}
