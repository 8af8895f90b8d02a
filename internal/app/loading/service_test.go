package loading_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memtriprepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/triprepo"
	"github.com/DFCPagro/DFCP-sub005/internal/app/loading"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var loadedAt = time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func seedTrip(t *testing.T, repo *memtriprepo.Repo) domain.Trip {
	t.Helper()

	s0 := domain.Stop{
		Location: domain.PickupLocation{Label: "Green Acres", GeoPoint: domain.GeoPoint{Lon: 34.80, Lat: 32.10}},
		FarmerID: "f1", FarmerName: "Dana", FarmName: "Green Acres",
	}
	s0.AddOrder("o1", 3, 48)
	s1 := domain.Stop{
		Location: domain.PickupLocation{Label: "Hilltop", GeoPoint: domain.GeoPoint{Lon: 34.85, Lat: 32.12}},
		FarmerID: "f2", FarmerName: "Omer", FarmName: "Hilltop",
	}
	s1.AddOrder("o2", 2, 30)

	trip := domain.Trip{
		ID:         "trip-1",
		Key:        domain.PlanKey{Center: "c-tlv", Date: domain.DateOnly(loadedAt), Shift: domain.ShiftMorning},
		ShiftStart: time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC),
		Base:       domain.GeoPoint{Lon: 34.78, Lat: 32.08},
		Stops: []domain.TripStop{
			{Seq: 0, Stop: s0},
			{Seq: 1, Stop: s1},
		},
	}
	trip.InitLifecycle(loadedAt.Add(-10*time.Hour), "planner")
	if err := repo.CreatePlan(context.Background(), trip.Key, []domain.Trip{trip}); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	return trip
}

func TestService_SetStopStatus_RecordsProgressAndPersists(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	seedTrip(t, repo)
	svc := loading.NewService(repo, fixedClock{now: loadedAt})
	ctx := context.Background()

	for _, status := range []domain.StopStatus{domain.StopStatusEnRoute, domain.StopStatusArrived} {
		if _, err := svc.SetStopStatus(ctx, "trip-1", 0, loading.StopStatusInput{Status: status, Actor: "driver-7"}); err != nil {
			t.Fatalf("SetStopStatus(%q): %v", status, err)
		}
	}
	got, err := svc.SetStopStatus(ctx, "trip-1", 0, loading.StopStatusInput{
		Status:           domain.StopStatusLoaded,
		LoadedContainers: intp(2),
		LoadedWeightKg:   floatp(31.5),
		Note:             "one crate refused",
		Actor:            "driver-7",
	})
	if err != nil {
		t.Fatalf("SetStopStatus(loaded): %v", err)
	}

	if got.Stops[0].Status != domain.StopStatusLoaded {
		t.Fatalf("status = %q, want loaded", got.Stops[0].Status)
	}
	if got.TotalLoadedContainers != 2 || got.TotalLoadedWeightKg != 31.5 {
		t.Fatalf("rollups = %d / %.1f, want 2 / 31.5", got.TotalLoadedContainers, got.TotalLoadedWeightKg)
	}

	// The change is persisted, not just returned.
	stored, err := repo.GetByID(ctx, "trip-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Stops[0].Status != domain.StopStatusLoaded || stored.TotalLoadedContainers != 2 {
		t.Fatalf("stored = %+v", stored.Stops[0])
	}
	last := stored.Audit[len(stored.Audit)-1]
	if last.Event != "stop.0.loaded" || last.Actor != "driver-7" || last.Note != "one crate refused" {
		t.Fatalf("last audit entry = %+v", last)
	}
	if !stored.UpdatedAt.Equal(loadedAt) {
		t.Fatalf("updated at = %v, want clock instant", stored.UpdatedAt)
	}
}

func TestService_SetStopStatus_DefaultsToExpectedFigures(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	seedTrip(t, repo)
	svc := loading.NewService(repo, fixedClock{now: loadedAt})
	ctx := context.Background()

	if _, err := svc.SetStopStatus(ctx, "trip-1", 1, loading.StopStatusInput{Status: domain.StopStatusArrived}); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	got, err := svc.SetStopStatus(ctx, "trip-1", 1, loading.StopStatusInput{Status: domain.StopStatusLoaded})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Stops[1].LoadedContainers != 2 || got.Stops[1].LoadedWeightKg != 30 {
		t.Fatalf("loaded = %d / %.1f, want expected 2 / 30", got.Stops[1].LoadedContainers, got.Stops[1].LoadedWeightKg)
	}
}

func TestService_SetStopStatus_Rejections(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	seedTrip(t, repo)
	svc := loading.NewService(repo, fixedClock{now: loadedAt})
	ctx := context.Background()

	var ae *loading.Error

	_, err := svc.SetStopStatus(ctx, "missing", 0, loading.StopStatusInput{Status: domain.StopStatusEnRoute})
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "TRIP_NOT_FOUND" {
		t.Fatalf("unknown trip: err = %v", err)
	}

	_, err = svc.SetStopStatus(ctx, "trip-1", 9, loading.StopStatusInput{Status: domain.StopStatusEnRoute})
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "STOP_NOT_FOUND" {
		t.Fatalf("unknown seq: err = %v", err)
	}

	_, err = svc.SetStopStatus(ctx, "trip-1", 0, loading.StopStatusInput{Status: "levitating"})
	if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("unknown status: err = %v", err)
	}

	_, err = svc.SetStopStatus(ctx, "trip-1", 0, loading.StopStatusInput{Status: domain.StopStatusLoading})
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "STOP_TRANSITION_INVALID" {
		t.Fatalf("illegal transition: err = %v", err)
	}

	_, err = svc.SetStopStatus(ctx, "trip-1", 0, loading.StopStatusInput{Status: domain.StopStatusEnRoute, LoadedContainers: intp(-1)})
	if !errors.As(err, &ae) || ae.Status != 422 {
		t.Fatalf("negative containers: err = %v", err)
	}

	// Nothing above should have mutated the stored trip.
	stored, _ := repo.GetByID(ctx, "trip-1")
	if stored.Stops[0].Status != domain.StopStatusPlanned || len(stored.Audit) != 1 {
		t.Fatalf("stored trip mutated by rejected calls: %+v", stored.Stops[0])
	}
}

func TestService_AdvanceTripStage(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	seedTrip(t, repo)
	svc := loading.NewService(repo, fixedClock{now: loadedAt})
	ctx := context.Background()

	for _, stage := range []domain.TripStage{
		domain.TripStageAssigned,
		domain.TripStageEnRoute,
		domain.TripStageReturning,
		domain.TripStageCompleted,
	} {
		got, err := svc.AdvanceTripStage(ctx, "trip-1", loading.StageInput{Stage: stage, Actor: "dispatch"})
		if err != nil {
			t.Fatalf("AdvanceTripStage(%q): %v", stage, err)
		}
		if got.Stage() != stage {
			t.Fatalf("stage = %q, want %q", got.Stage(), stage)
		}
	}

	stored, _ := repo.GetByID(ctx, "trip-1")
	if stored.Stage() != domain.TripStageCompleted {
		t.Fatalf("stored stage = %q, want completed", stored.Stage())
	}

	var ae *loading.Error
	_, err := svc.AdvanceTripStage(ctx, "trip-1", loading.StageInput{Stage: domain.TripStageProblem})
	if !errors.As(err, &ae) || ae.Status != 409 || ae.Code != "STAGE_TRANSITION_INVALID" {
		t.Fatalf("completed trip advanced: err = %v", err)
	}

	_, err = svc.AdvanceTripStage(ctx, "trip-1", loading.StageInput{Stage: "warp"})
	if !errors.As(err, &ae) || ae.Status != 422 {
		t.Fatalf("unknown stage: err = %v", err)
	}

	_, err = svc.AdvanceTripStage(ctx, "missing", loading.StageInput{Stage: domain.TripStageAssigned})
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("unknown trip: err = %v", err)
	}
}

func TestService_AdvanceTripStage_SkippingStageFails(t *testing.T) {
	t.Parallel()

	repo := memtriprepo.NewRepo()
	seedTrip(t, repo)
	svc := loading.NewService(repo, fixedClock{now: loadedAt})

	var ae *loading.Error
	_, err := svc.AdvanceTripStage(context.Background(), "trip-1", loading.StageInput{Stage: domain.TripStageEnRoute})
	if !errors.As(err, &ae) || ae.Status != 409 {
		t.Fatalf("err = %v, want 409 for planned -> enroute", err)
	}
}
