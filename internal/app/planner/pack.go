package planner

import (
	"fmt"
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// SLA budgets in minutes from shift start. A vehicle must reach its first
// farmer within MaxMinutesToFirstStop and be back at base within
// MaxMinutesToReturn. They bound groups of stops, not individual stops: a
// lone stop too far out still gets its own trip rather than being dropped.
const (
	MaxMinutesToFirstStop = 90
	MaxMinutesToReturn    = 180
)

// Packer partitions an ordered stop list into trips. It is an interface so
// the greedy heuristic can later give way to a real VRP solver without
// touching aggregation or orchestration.
type Packer interface {
	// Pack consumes stops sorted ascending by travel minutes from base and
	// returns the trips in plan order. Every stop appears in exactly one
	// trip and the input order is preserved across trip boundaries. Pack
	// panics when the input is unsorted or a coordinate is non-finite;
	// those are orchestrator bugs, not runtime conditions.
	Pack(stops []domain.Stop, base domain.GeoPoint, shiftStart time.Time) []domain.Trip
}

// GreedyPacker packs with a single forward pass and no backtracking. Each
// stop is tried against the running trip by simulating the extended route
// from base; on SLA violation the running trip is sealed and a fresh trip
// starts with the offending stop. Closed trips never reopen, which keeps
// re-planning stable, and the nearest-first input order keeps geographic
// clusters together.
//
// Every emitted trip models an independent vehicle leaving base at shift
// start, so the simulation clock resets to shiftStart on every split.
type GreedyPacker struct{}

func (GreedyPacker) Pack(stops []domain.Stop, base domain.GeoPoint, shiftStart time.Time) []domain.Trip {
	assertPackable(stops, base)

	var trips []domain.Trip
	var current []domain.Stop
	var currentSim routeSim

	for _, s := range stops {
		candidate := append(append([]domain.Stop(nil), current...), s)
		sim := simulateRoute(candidate, base, shiftStart)

		if len(current) > 0 && sim.violatesSLA() {
			trips = append(trips, finalizeTrip(current, currentSim, base, shiftStart, len(trips)))
			current = []domain.Stop{s}
			currentSim = simulateRoute(current, base, shiftStart)
			continue
		}

		// Accepted: the candidate becomes the running trip and its
		// simulated arrivals become the planned arrivals. A first stop
		// that violates on its own is accepted too; stops are never
		// dropped.
		current = candidate
		currentSim = sim
	}

	if len(current) > 0 {
		trips = append(trips, finalizeTrip(current, currentSim, base, shiftStart, len(trips)))
	}
	return trips
}

// routeSim is one simulated traversal of a stop list: leave base at shift
// start, drive stop to stop, return to base.
type routeSim struct {
	arrivals []time.Time

	// minutesToFirst is the elapsed time from shift start to the first
	// stop; minutesToReturn continues through every stop and the leg back
	// to base.
	minutesToFirst  int
	minutesToReturn int
}

func (r routeSim) violatesSLA() bool {
	return r.minutesToFirst > MaxMinutesToFirstStop || r.minutesToReturn > MaxMinutesToReturn
}

func simulateRoute(stops []domain.Stop, base domain.GeoPoint, shiftStart time.Time) routeSim {
	sim := routeSim{arrivals: make([]time.Time, len(stops))}
	elapsed := 0
	at := base
	for i, s := range stops {
		elapsed += domain.TravelMinutes(at, s.Location.GeoPoint)
		if i == 0 {
			sim.minutesToFirst = elapsed
		}
		sim.arrivals[i] = shiftStart.Add(time.Duration(elapsed) * time.Minute)
		at = s.Location.GeoPoint
	}
	if len(stops) > 0 {
		elapsed += domain.TravelMinutes(at, base)
	}
	sim.minutesToReturn = elapsed
	return sim
}

// finalizeTrip seals an accepted stop list into a trip skeleton. The planner
// service fills in identity and lifecycle state afterwards.
func finalizeTrip(stops []domain.Stop, sim routeSim, base domain.GeoPoint, shiftStart time.Time, tripSeq int) domain.Trip {
	tripStops := make([]domain.TripStop, len(stops))
	for i, s := range stops {
		tripStops[i] = domain.TripStop{
			Seq:            i,
			Stop:           s,
			PlannedArrival: sim.arrivals[i],
		}
	}
	return domain.Trip{
		Seq:          tripSeq,
		ShiftStart:   shiftStart,
		Base:         base,
		Stops:        tripStops,
		PlannedStart: shiftStart,
		PlannedEnd:   shiftStart.Add(time.Duration(sim.minutesToReturn) * time.Minute),
	}
}

func assertPackable(stops []domain.Stop, base domain.GeoPoint) {
	if !base.Valid() {
		panic("planner: pack called with non-finite base coordinate")
	}
	prev := -1
	for i, s := range stops {
		// TravelMinutes panics on non-finite stop coordinates.
		m := domain.TravelMinutes(base, s.Location.GeoPoint)
		if m < prev {
			panic(fmt.Sprintf("planner: stops not sorted by travel time from base (stop %d)", i))
		}
		prev = m
	}
}
