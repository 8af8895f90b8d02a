package loading

import (
	"context"
	"errors"
	"strings"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	clockport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/clock"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
)

// Service is the warehouse-loading side of a trip's life: once the planner
// has stored a plan, drivers and loaders report progress through here. Every
// mutation is validated against the lifecycle rules, recomputes the trip's
// rollups and lands in the audit trail.
type Service struct {
	trips triprepo.Repository
	clk   clockport.Clock
}

func NewService(trips triprepo.Repository, clk clockport.Clock) *Service {
	return &Service{trips: trips, clk: clk}
}

// SetStopStatus transitions one stop of a trip and persists the updated
// trip, which is returned in full so callers see the new rollups.
func (s *Service) SetStopStatus(ctx context.Context, tripID domain.TripID, seq int, in StopStatusInput) (domain.Trip, error) {
	if _, err := domain.ParseStopStatus(string(in.Status)); err != nil {
		return domain.Trip{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid stop status",
			Details: map[string]any{"status": err.Error()},
		}
	}
	if in.LoadedContainers != nil && *in.LoadedContainers < 0 {
		return domain.Trip{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid loadedContainers",
			Details: map[string]any{"loadedContainers": "must be >= 0"},
		}
	}
	if in.LoadedWeightKg != nil && *in.LoadedWeightKg < 0 {
		return domain.Trip{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid loadedWeightKg",
			Details: map[string]any{"loadedWeightKg": "must be >= 0"},
		}
	}

	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return domain.Trip{}, err
	}
	if seq < 0 || seq >= len(t.Stops) {
		return domain.Trip{}, &Error{Status: 404, Code: "STOP_NOT_FOUND", Message: "stop not found"}
	}

	upd := domain.StopStatusUpdate{
		Status:           in.Status,
		LoadedContainers: in.LoadedContainers,
		LoadedWeightKg:   in.LoadedWeightKg,
		Note:             strings.TrimSpace(in.Note),
	}
	if _, err := t.SetStopStatus(seq, upd, s.clk.Now().UTC(), s.actor(in.Actor)); err != nil {
		return domain.Trip{}, &Error{Status: 409, Code: "STOP_TRANSITION_INVALID", Message: err.Error()}
	}

	if err := s.trips.Save(ctx, t); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

// AdvanceTripStage moves the whole trip to a new lifecycle stage.
func (s *Service) AdvanceTripStage(ctx context.Context, tripID domain.TripID, in StageInput) (domain.Trip, error) {
	if _, err := domain.ParseTripStage(string(in.Stage)); err != nil {
		return domain.Trip{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid trip stage",
			Details: map[string]any{"stage": err.Error()},
		}
	}

	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return domain.Trip{}, err
	}

	if err := t.AdvanceStage(in.Stage, s.clk.Now().UTC(), s.actor(in.Actor), strings.TrimSpace(in.Note)); err != nil {
		return domain.Trip{}, &Error{Status: 409, Code: "STAGE_TRANSITION_INVALID", Message: err.Error()}
	}

	if err := s.trips.Save(ctx, t); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

func (s *Service) actor(raw string) string {
	if a := domain.NormalizeActor(raw); a != "" {
		return a
	}
	return "warehouse"
}
