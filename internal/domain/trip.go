package domain

import (
	"fmt"
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain/stageflow"
)

// StopStatus is the status of a single stop within a trip.
type StopStatus string

const (
	StopStatusPlanned StopStatus = "planned"
	StopStatusEnRoute StopStatus = "enroute"
	StopStatusArrived StopStatus = "arrived"
	StopStatusLoading StopStatus = "loading"
	StopStatusLoaded  StopStatus = "loaded"
	StopStatusSkipped StopStatus = "skipped"
	StopStatusProblem StopStatus = "problem"
)

// ParseStopStatus validates a stop status name coming from the edge.
func ParseStopStatus(s string) (StopStatus, error) {
	switch StopStatus(s) {
	case StopStatusPlanned, StopStatusEnRoute, StopStatusArrived, StopStatusLoading,
		StopStatusLoaded, StopStatusSkipped, StopStatusProblem:
		return StopStatus(s), nil
	default:
		return "", fmt.Errorf("unknown stop status %q", s)
	}
}

// TripStage is the coarse lifecycle stage of a whole trip.
type TripStage string

const (
	TripStagePlanned   TripStage = "planned"
	TripStageAssigned  TripStage = "assigned"
	TripStageEnRoute   TripStage = "enroute"
	TripStageReturning TripStage = "returning"
	TripStageCompleted TripStage = "completed"
	TripStageProblem   TripStage = "problem"
)

// ParseTripStage validates a trip stage name coming from the edge.
func ParseTripStage(s string) (TripStage, error) {
	switch TripStage(s) {
	case TripStagePlanned, TripStageAssigned, TripStageEnRoute,
		TripStageReturning, TripStageCompleted, TripStageProblem:
		return TripStage(s), nil
	default:
		return "", fmt.Errorf("unknown trip stage %q", s)
	}
}

// PlanKey identifies one planning run: all trips produced for a center's
// shift on a date share the key. Date carries date-only semantics (UTC
// midnight, see DateOnly).
type PlanKey struct {
	Center CenterID
	Date   time.Time
	Shift  Shift
}

// DateOnly truncates an instant to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize returns the key with its date truncated to date-only form.
func (k PlanKey) Normalize() PlanKey {
	k.Date = DateOnly(k.Date)
	return k
}

// TripStop is a Stop embedded in a trip, annotated with visit bookkeeping.
type TripStop struct {
	// Seq is the visiting order within the trip, 0..n-1, strictly increasing.
	Seq int

	Stop

	PlannedArrival time.Time
	Status         StopStatus

	// Loaded figures are written by warehouse loading when the stop is
	// actually collected; zero until then.
	LoadedContainers int
	LoadedWeightKg   float64
}

// AuditEntry is one row of a trip's append-only event trail.
type AuditEntry struct {
	At    time.Time
	Actor string
	Event string
	Note  string
}

// Trip is one vehicle route for a shift: an ordered sequence of stops with
// planned timing, plus the lifecycle state mutated by warehouse loading.
// Trips are created once per plan key by the planner and never deleted.
type Trip struct {
	ID TripID

	Key PlanKey
	// Seq is the trip's position within its plan, 0-based.
	Seq int

	// ShiftStart is the baseline every SLA window is measured from.
	ShiftStart time.Time
	Base       GeoPoint

	Stops []TripStop

	StageLog stageflow.Track[TripStage]
	Audit    []AuditEntry

	PlannedStart time.Time
	PlannedEnd   time.Time

	// Rollups are pure sums over Stops, recomputed on every mutation by
	// RecomputeTotals. They are never incrementally maintained.
	TotalExpectedContainers int
	TotalExpectedWeightKg   float64
	TotalLoadedContainers   int
	TotalLoadedWeightKg     float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stage returns the trip's current lifecycle stage. A trip whose track has
// not been initialized yet reads as planned.
func (t *Trip) Stage() TripStage {
	if s, ok := t.StageLog.Current(); ok {
		return s
	}
	return TripStagePlanned
}

// RecomputeTotals rebuilds all four rollups from the stop slice. Keeping this
// a full recomputation means the rollups can never drift from the stops.
func (t *Trip) RecomputeTotals() {
	t.TotalExpectedContainers = 0
	t.TotalExpectedWeightKg = 0
	t.TotalLoadedContainers = 0
	t.TotalLoadedWeightKg = 0
	for _, s := range t.Stops {
		t.TotalExpectedContainers += s.ExpectedContainers
		t.TotalExpectedWeightKg += s.ExpectedWeightKg
		t.TotalLoadedContainers += s.LoadedContainers
		t.TotalLoadedWeightKg += s.LoadedWeightKg
	}
}
