package loading

import "github.com/DFCPagro/DFCP-sub005/internal/domain"

// StopStatusInput is one stop-status change reported from the warehouse or
// the driver app. Loaded figures matter only when Status is loaded; leaving
// them nil records the stop's expected figures.
type StopStatusInput struct {
	Status           domain.StopStatus
	LoadedContainers *int
	LoadedWeightKg   *float64
	Note             string
	Actor            string
}

// StageInput is one trip-stage transition.
type StageInput struct {
	Stage domain.TripStage
	Actor string
	Note  string
}
