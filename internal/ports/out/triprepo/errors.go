package triprepo

import "errors"

var (
	ErrNotFound = errors.New("trip not found")

	// ErrPlanExists is returned by CreatePlan when a plan has already been
	// stored for the key, from this process or any other.
	ErrPlanExists = errors.New("plan already exists for key")
)
