package planner

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/clock"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/packing"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/shiftconfig"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
)

type Service struct {
	orders orderrepo.Repository
	trips  triprepo.Repository
	items  catalog.Catalog
	shifts shiftconfig.Provider
	clock  clock.Clock

	aggregator *StopAggregator
	packer     Packer

	newTripID func() domain.TripID
}

func NewService(orders orderrepo.Repository, trips triprepo.Repository, items catalog.Catalog, shifts shiftconfig.Provider, estimator packing.Estimator, packer Packer, clk clock.Clock) *Service {
	return &Service{
		orders:     orders,
		trips:      trips,
		items:      items,
		shifts:     shifts,
		clock:      clk,
		aggregator: NewStopAggregator(estimator),
		packer:     packer,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// Plan runs one planning pass for the request's (center, date, shift) key:
// load approved orders, fold them into stops, order stops nearest-first from
// base, pack them into trips under the SLA budgets, persist.
//
// Planning is idempotent per key. A key that is already planned returns the
// stored trips with Created false, and two concurrent calls for the same key
// resolve through the storage uniqueness guarantee: the loser re-reads the
// winner's plan instead of double-planning.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (PlanResult, error) {
	if err := validatePlanRequest(req); err != nil {
		return PlanResult{}, err
	}
	key := domain.PlanKey{Center: req.Center, Date: req.Date, Shift: req.Shift}.Normalize()

	existing, err := s.trips.ListByPlanKey(ctx, key)
	if err != nil {
		return PlanResult{}, err
	}
	if len(existing) > 0 {
		return PlanResult{Trips: existing, Created: false}, nil
	}

	orders, err := s.orders.ListApproved(ctx, key)
	if err != nil {
		return PlanResult{}, err
	}
	if len(orders) == 0 {
		// Nothing to plan is not an error, and nothing is stored: once
		// orders show up a later call plans them.
		return PlanResult{Trips: []domain.Trip{}, Created: false}, nil
	}

	items, sizes, shiftStart, err := s.preload(ctx, key, orders)
	if err != nil {
		return PlanResult{}, err
	}

	stops := s.aggregator.GroupIntoStops(orders, items, sizes)
	if len(stops) == 0 {
		// Every order lacked a routable location.
		return PlanResult{Trips: []domain.Trip{}, Created: false}, nil
	}
	sortStopsByTravelFromBase(stops, req.Base)

	trips := s.packer.Pack(stops, req.Base, shiftStart)

	now := s.clock.Now().UTC()
	actor := domain.NormalizeActor(req.RequestedBy)
	if actor == "" {
		actor = "system"
	}
	for i := range trips {
		trips[i].ID = s.newTripID()
		trips[i].Key = key
		trips[i].InitLifecycle(now, actor)
	}

	if err := s.trips.CreatePlan(ctx, key, trips); err != nil {
		if errors.Is(err, triprepo.ErrPlanExists) {
			// Lost the race: another planner stored this key between our
			// check and our write. Their plan wins.
			stored, err := s.trips.ListByPlanKey(ctx, key)
			if err != nil {
				return PlanResult{}, err
			}
			return PlanResult{Trips: stored, Created: false}, nil
		}
		return PlanResult{}, err
	}
	return PlanResult{Trips: trips, Created: true}, nil
}

// ListPlanned returns the stored trips for a plan key, ordered by Seq. An
// unplanned key yields an empty slice.
func (s *Service) ListPlanned(ctx context.Context, center domain.CenterID, date time.Time, shift domain.Shift) ([]domain.Trip, error) {
	if !shift.Valid() {
		return nil, &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid shift", Details: map[string]any{"shift": "must be one of morning, afternoon, evening, night"}}
	}
	key := domain.PlanKey{Center: center, Date: date, Shift: shift}.Normalize()
	return s.trips.ListByPlanKey(ctx, key)
}

func (s *Service) GetTrip(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, &Error{Status: 404, Code: "TRIP_NOT_FOUND", Message: "trip not found"}
		}
		return domain.Trip{}, err
	}
	return t, nil
}

// preload fetches the item catalog, the container sizes and the shift window
// in one round. The three reads are independent, so they run concurrently.
func (s *Service) preload(ctx context.Context, key domain.PlanKey, orders []orderrepo.PickupOrder) (map[domain.ItemID]catalog.Item, []catalog.ContainerSize, time.Time, error) {
	var (
		items      map[domain.ItemID]catalog.Item
		sizes      []catalog.ContainerSize
		shiftStart time.Time
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.items.Items(ctx, distinctItemIDs(orders))
		return err
	})
	g.Go(func() error {
		var err error
		sizes, err = s.items.ContainerSizes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		shiftStart, err = s.shifts.ShiftStart(ctx, key.Center, key.Shift, key.Date)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, shiftconfig.ErrNotConfigured) {
			return nil, nil, time.Time{}, &Error{
				Status:  422,
				Code:    "SHIFT_NOT_CONFIGURED",
				Message: "no shift window configured for center",
				Details: map[string]any{"center": string(key.Center), "shift": string(key.Shift)},
			}
		}
		return nil, nil, time.Time{}, err
	}
	return items, sizes, shiftStart, nil
}

func distinctItemIDs(orders []orderrepo.PickupOrder) []domain.ItemID {
	seen := make(map[domain.ItemID]struct{}, len(orders))
	ids := make([]domain.ItemID, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.ItemID]; ok {
			continue
		}
		seen[o.ItemID] = struct{}{}
		ids = append(ids, o.ItemID)
	}
	return ids
}

func sortStopsByTravelFromBase(stops []domain.Stop, base domain.GeoPoint) {
	sort.SliceStable(stops, func(i, j int) bool {
		return domain.TravelMinutes(base, stops[i].Location.GeoPoint) <
			domain.TravelMinutes(base, stops[j].Location.GeoPoint)
	})
}

func validatePlanRequest(req PlanRequest) error {
	details := map[string]any{}
	if req.Center == "" {
		details["center"] = "must be non-empty"
	}
	if req.Date.IsZero() {
		details["date"] = "must be set"
	}
	if !req.Shift.Valid() {
		details["shift"] = "must be one of morning, afternoon, evening, night"
	}
	if !req.Base.Valid() {
		details["base"] = "coordinates must be finite"
	}
	if len(details) > 0 {
		return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid plan request", Details: details}
	}
	return nil
}
