package triprepo

import (
	"context"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// Repository provides access to persisted trips. Trips are grouped into
// plans: every planning run for a (center, date, shift) key persists all of
// its trips under that key in one shot.
//
// Result ordering expectations:
//   - ListByPlanKey returns trips ordered by their Seq within the plan.
type Repository interface {
	// CreatePlan atomically persists all trips of one planning run. When a
	// plan already exists for the key it returns ErrPlanExists and writes
	// nothing; callers treat that as "another planner won the race" and
	// re-read the stored plan.
	CreatePlan(ctx context.Context, key domain.PlanKey, trips []domain.Trip) error

	// ListByPlanKey returns the trips of the plan stored under key, ordered
	// by Seq. An unknown key yields an empty slice, not an error.
	ListByPlanKey(ctx context.Context, key domain.PlanKey) ([]domain.Trip, error)

	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)

	// Save replaces the stored trip, including its stops, stage track and
	// audit trail. The trip must already exist.
	Save(ctx context.Context, t domain.Trip) error
}
