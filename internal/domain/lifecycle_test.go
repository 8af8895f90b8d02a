package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

func newTestTrip() domain.Trip {
	base := domain.GeoPoint{Lon: 34.78, Lat: 32.08}
	s0 := domain.Stop{
		Location: domain.PickupLocation{Label: "Green Acres", GeoPoint: domain.GeoPoint{Lon: 34.80, Lat: 32.10}},
		FarmerID: "farmer-1", FarmerName: "Dana Peretz", FarmName: "Green Acres",
	}
	s0.AddOrder("order-1", 3, 48.5)
	s0.AddOrder("order-2", 1, 12.0)
	s1 := domain.Stop{
		Location: domain.PickupLocation{Label: "Hilltop", GeoPoint: domain.GeoPoint{Lon: 34.85, Lat: 32.12}},
		FarmerID: "farmer-2", FarmerName: "Omer Levi", FarmName: "Hilltop",
	}
	s1.AddOrder("order-3", 2, 30.0)

	return domain.Trip{
		ID:         "trip-1",
		Key:        domain.PlanKey{Center: "center-1", Date: domain.DateOnly(time.Now()), Shift: domain.ShiftMorning},
		ShiftStart: time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC),
		Base:       base,
		Stops: []domain.TripStop{
			{Seq: 0, Stop: s0},
			{Seq: 1, Stop: s1},
		},
	}
}

func TestInitLifecycle(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	now := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	trip.InitLifecycle(now, "planner")

	if got := trip.Stage(); got != domain.TripStagePlanned {
		t.Fatalf("Stage() = %q, want planned", got)
	}
	for i, s := range trip.Stops {
		if s.Status != domain.StopStatusPlanned {
			t.Fatalf("stop %d status = %q, want planned", i, s.Status)
		}
	}
	if trip.TotalExpectedContainers != 6 || trip.TotalExpectedWeightKg != 90.5 {
		t.Fatalf("rollups = %d containers / %.1f kg, want 6 / 90.5",
			trip.TotalExpectedContainers, trip.TotalExpectedWeightKg)
	}
	if trip.TotalLoadedContainers != 0 || trip.TotalLoadedWeightKg != 0 {
		t.Fatalf("loaded rollups nonzero on a fresh trip")
	}
	if len(trip.Audit) != 1 || trip.Audit[0].Event != "trip.planned" {
		t.Fatalf("audit = %+v, want single trip.planned entry", trip.Audit)
	}
	if !strings.Contains(trip.Audit[0].Note, "2 stops") {
		t.Fatalf("audit note = %q, want stop count", trip.Audit[0].Note)
	}
	if !trip.CreatedAt.Equal(now) || !trip.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v / %v, want %v", trip.CreatedAt, trip.UpdatedAt, now)
	}
}

func TestSetStopStatus_HappyPath(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	now := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)
	trip.InitLifecycle(now, "planner")

	for _, status := range []domain.StopStatus{
		domain.StopStatusEnRoute,
		domain.StopStatusArrived,
		domain.StopStatusLoading,
		domain.StopStatusLoaded,
	} {
		now = now.Add(10 * time.Minute)
		if _, err := trip.SetStopStatus(0, domain.StopStatusUpdate{Status: status}, now, "driver-7"); err != nil {
			t.Fatalf("SetStopStatus(%q): %v", status, err)
		}
	}

	// No loaded figures were supplied, so the expected figures stand in.
	got := trip.Stops[0]
	if got.LoadedContainers != 4 || got.LoadedWeightKg != 60.5 {
		t.Fatalf("loaded = %d / %.1f, want expected figures 4 / 60.5", got.LoadedContainers, got.LoadedWeightKg)
	}
	if trip.TotalLoadedContainers != 4 || trip.TotalLoadedWeightKg != 60.5 {
		t.Fatalf("rollups = %d / %.1f, want 4 / 60.5", trip.TotalLoadedContainers, trip.TotalLoadedWeightKg)
	}

	// Audit grew by one entry per transition, newest last.
	if len(trip.Audit) != 5 {
		t.Fatalf("audit entries = %d, want 5", len(trip.Audit))
	}
	if last := trip.Audit[len(trip.Audit)-1]; last.Event != "stop.0.loaded" || last.Actor != "driver-7" {
		t.Fatalf("last audit entry = %+v", last)
	}
}

func TestSetStopStatus_ExplicitLoadedFigures(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	now := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)
	trip.InitLifecycle(now, "planner")

	if _, err := trip.SetStopStatus(1, domain.StopStatusUpdate{Status: domain.StopStatusArrived}, now, "driver-7"); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	containers := 1
	weight := 17.5
	stop, err := trip.SetStopStatus(1, domain.StopStatusUpdate{
		Status:           domain.StopStatusLoaded,
		LoadedContainers: &containers,
		LoadedWeightKg:   &weight,
		Note:             "one crate damaged",
	}, now, "driver-7")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stop.LoadedContainers != 1 || stop.LoadedWeightKg != 17.5 {
		t.Fatalf("loaded = %d / %.1f, want 1 / 17.5", stop.LoadedContainers, stop.LoadedWeightKg)
	}
	if trip.TotalLoadedContainers != 1 || trip.TotalLoadedWeightKg != 17.5 {
		t.Fatalf("rollups = %d / %.1f, want 1 / 17.5", trip.TotalLoadedContainers, trip.TotalLoadedWeightKg)
	}
}

func TestSetStopStatus_RejectsIllegalTransition(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	now := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)
	trip.InitLifecycle(now, "planner")

	// planned -> loading skips arrival.
	if _, err := trip.SetStopStatus(0, domain.StopStatusUpdate{Status: domain.StopStatusLoading}, now, "driver-7"); err == nil {
		t.Fatalf("expected error for planned -> loading")
	}

	// Terminal statuses stay terminal.
	mustSetStop(t, &trip, 0, domain.StopStatusSkipped, now)
	if _, err := trip.SetStopStatus(0, domain.StopStatusUpdate{Status: domain.StopStatusEnRoute}, now, "driver-7"); err == nil {
		t.Fatalf("expected error for skipped -> enroute")
	}

	// Out-of-range seq.
	if _, err := trip.SetStopStatus(5, domain.StopStatusUpdate{Status: domain.StopStatusEnRoute}, now, "driver-7"); err == nil {
		t.Fatalf("expected error for unknown seq")
	}
}

func TestSetStopStatus_ProblemRecovery(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	now := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)
	trip.InitLifecycle(now, "planner")

	mustSetStop(t, &trip, 0, domain.StopStatusProblem, now)
	mustSetStop(t, &trip, 0, domain.StopStatusArrived, now)
	mustSetStop(t, &trip, 0, domain.StopStatusLoaded, now)

	if trip.Stops[0].Status != domain.StopStatusLoaded {
		t.Fatalf("status = %q, want loaded after problem recovery", trip.Stops[0].Status)
	}
}

func TestAdvanceStage(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	now := time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)
	trip.InitLifecycle(now, "planner")

	for _, stage := range []domain.TripStage{
		domain.TripStageAssigned,
		domain.TripStageEnRoute,
		domain.TripStageReturning,
		domain.TripStageCompleted,
	} {
		now = now.Add(30 * time.Minute)
		if err := trip.AdvanceStage(stage, now, "dispatch", ""); err != nil {
			t.Fatalf("AdvanceStage(%q): %v", stage, err)
		}
		if got := trip.Stage(); got != stage {
			t.Fatalf("Stage() = %q, want %q", got, stage)
		}
	}

	// Completed is terminal.
	if err := trip.AdvanceStage(domain.TripStageProblem, now, "dispatch", ""); err == nil {
		t.Fatalf("expected error advancing a completed trip")
	}

	// 1 planned + 4 advances in both trails.
	if len(trip.StageLog.Entries) != 5 {
		t.Fatalf("stage entries = %d, want 5", len(trip.StageLog.Entries))
	}
	if len(trip.Audit) != 5 {
		t.Fatalf("audit entries = %d, want 5", len(trip.Audit))
	}
}

func TestAdvanceStage_SkippingStageFails(t *testing.T) {
	t.Parallel()

	trip := newTestTrip()
	trip.InitLifecycle(time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC), "planner")

	if err := trip.AdvanceStage(domain.TripStageEnRoute, time.Now(), "dispatch", ""); err == nil {
		t.Fatalf("expected error for planned -> enroute")
	}
}

func mustSetStop(t *testing.T, trip *domain.Trip, seq int, status domain.StopStatus, now time.Time) {
	t.Helper()
	if _, err := trip.SetStopStatus(seq, domain.StopStatusUpdate{Status: status}, now, "driver-7"); err != nil {
		t.Fatalf("SetStopStatus(%d, %q): %v", seq, status, err)
	}
}
