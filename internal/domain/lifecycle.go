package domain

import (
	"fmt"
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain/stageflow"
)

// StopTransitions is the legal stop-status graph. A stop may jump straight
// from planned to arrived (drivers do not always signal departure) and from
// arrived to loaded (small pickups skip the loading state). loaded and
// skipped are terminal; problem can be resolved back into the flow.
var StopTransitions = map[StopStatus][]StopStatus{
	StopStatusPlanned: {StopStatusEnRoute, StopStatusArrived, StopStatusSkipped, StopStatusProblem},
	StopStatusEnRoute: {StopStatusArrived, StopStatusSkipped, StopStatusProblem},
	StopStatusArrived: {StopStatusLoading, StopStatusLoaded, StopStatusSkipped, StopStatusProblem},
	StopStatusLoading: {StopStatusLoaded, StopStatusProblem},
	StopStatusLoaded:  {},
	StopStatusSkipped: {},
	StopStatusProblem: {StopStatusArrived, StopStatusSkipped},
}

// TripStageTransitions is the legal trip-stage graph. problem is re-enterable
// from every live stage and can resume into any live stage once resolved.
var TripStageTransitions = stageflow.Transitions[TripStage]{
	TripStagePlanned:   {TripStageAssigned, TripStageProblem},
	TripStageAssigned:  {TripStageEnRoute, TripStageProblem},
	TripStageEnRoute:   {TripStageReturning, TripStageProblem},
	TripStageReturning: {TripStageCompleted, TripStageProblem},
	TripStageCompleted: {},
	TripStageProblem:   {TripStageAssigned, TripStageEnRoute, TripStageReturning},
}

func stopTransitionAllowed(from, to StopStatus) bool {
	for _, s := range StopTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// InitLifecycle puts a freshly packed trip into its default state: every stop
// planned, stage track started at planned, one audit entry naming who or what
// triggered planning, rollups recomputed. Called exactly once by the planner
// before the trip is persisted.
func (t *Trip) InitLifecycle(now time.Time, actor string) {
	for i := range t.Stops {
		t.Stops[i].Status = StopStatusPlanned
	}
	t.StageLog = stageflow.Start(TripStagePlanned, now, actor, "trip planned")
	t.Audit = []AuditEntry{{
		At:    now,
		Actor: actor,
		Event: "trip.planned",
		Note:  fmt.Sprintf("%d stops", len(t.Stops)),
	}}
	t.RecomputeTotals()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// StopStatusUpdate carries the optional measurements recorded alongside a
// stop-status change. Loaded figures are only consulted when the new status
// is loaded; nil means "assume the expected figures".
type StopStatusUpdate struct {
	Status           StopStatus
	LoadedContainers *int
	LoadedWeightKg   *float64
	Note             string
}

// SetStopStatus transitions one stop and keeps the trip's aggregates and
// audit trail consistent. Returns the updated stop.
func (t *Trip) SetStopStatus(seq int, upd StopStatusUpdate, now time.Time, actor string) (TripStop, error) {
	if seq < 0 || seq >= len(t.Stops) {
		return TripStop{}, fmt.Errorf("stop %d: trip %s has %d stops", seq, t.ID, len(t.Stops))
	}
	stop := &t.Stops[seq]
	if !stopTransitionAllowed(stop.Status, upd.Status) {
		return TripStop{}, fmt.Errorf("stop %d: illegal status transition %q -> %q", seq, stop.Status, upd.Status)
	}

	stop.Status = upd.Status
	if upd.Status == StopStatusLoaded {
		if upd.LoadedContainers != nil {
			stop.LoadedContainers = *upd.LoadedContainers
		} else {
			stop.LoadedContainers = stop.ExpectedContainers
		}
		if upd.LoadedWeightKg != nil {
			stop.LoadedWeightKg = *upd.LoadedWeightKg
		} else {
			stop.LoadedWeightKg = stop.ExpectedWeightKg
		}
	}

	t.Audit = append(t.Audit, AuditEntry{
		At:    now,
		Actor: actor,
		Event: fmt.Sprintf("stop.%d.%s", seq, upd.Status),
		Note:  upd.Note,
	})
	t.RecomputeTotals()
	t.UpdatedAt = now
	return *stop, nil
}

// AdvanceStage moves the trip to a new lifecycle stage, appending to both the
// stage track and the audit trail.
func (t *Trip) AdvanceStage(stage TripStage, now time.Time, actor, note string) error {
	log, entry, err := t.StageLog.Advance(TripStageTransitions, stage, now, actor, note)
	if err != nil {
		return err
	}
	t.StageLog = log
	t.Audit = append(t.Audit, AuditEntry{
		At:    entry.EnteredAt,
		Actor: entry.Actor,
		Event: "stage." + string(stage),
		Note:  note,
	})
	t.UpdatedAt = now
	return nil
}
