// Package contracttest holds behavioral suites every adapter implementation
// of an outbound port must pass. The memory and postgres adapter packages
// each run these against their own construction, so the two backends cannot
// drift apart on semantics.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	catalogport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
	orderrepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
	shiftconfigport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/shiftconfig"
	triprepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
)

type CleanupFunc = func()

// TripRepoFactory builds a fresh, empty trip repository.
type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)

// SeedOrdersFunc plants approved pickup orders behind a read-only order
// repository, however the backend stores them.
type SeedOrdersFunc = func(t *testing.T, key domain.PlanKey, orders []orderrepoport.PickupOrder)

type OrderRepoFactory func(t *testing.T) (orderrepoport.Repository, SeedOrdersFunc, CleanupFunc)

// SeedCatalogFunc plants items and container sizes behind a catalog.
type SeedCatalogFunc = func(t *testing.T, items []catalogport.Item, sizes []catalogport.ContainerSize)

type CatalogFactory func(t *testing.T) (catalogport.Catalog, SeedCatalogFunc, CleanupFunc)

// SeedWindowFunc plants one shift start window (UTC wall clock).
type SeedWindowFunc = func(t *testing.T, center domain.CenterID, shift domain.Shift, hour, minute int)

type ShiftConfigFactory func(t *testing.T) (shiftconfigport.Provider, SeedWindowFunc, CleanupFunc)

func testPlanKey(center domain.CenterID) domain.PlanKey {
	return domain.PlanKey{
		Center: center,
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Shift:  domain.ShiftMorning,
	}
}

func makeTrip(key domain.PlanKey, seq int, now time.Time) domain.Trip {
	stop := domain.Stop{
		Location: domain.PickupLocation{
			Label:    "Gate " + uuid.NewString()[:8],
			GeoPoint: domain.GeoPoint{Lon: 34.80 + float64(seq)/100, Lat: 32.10},
		},
		FarmerID:   domain.FarmerID(uuid.NewString()),
		FarmerName: "Dana",
		FarmName:   "Green Acres",
	}
	stop.AddOrder(domain.OrderID(uuid.NewString()), 2, 25.5)

	shiftStart := time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
	trip := domain.Trip{
		ID:         domain.TripID(uuid.NewString()),
		Key:        key,
		Seq:        seq,
		ShiftStart: shiftStart,
		Base:       domain.GeoPoint{Lon: 34.78, Lat: 32.08},
		Stops: []domain.TripStop{
			{Seq: 0, Stop: stop, PlannedArrival: shiftStart.Add(25 * time.Minute)},
		},
		PlannedStart: shiftStart,
		PlannedEnd:   shiftStart.Add(55 * time.Minute),
	}
	trip.InitLifecycle(now, "planner")
	return trip
}

// RunTripRepo exercises plan creation, idempotency-key uniqueness, lookup and
// full lifecycle round-tripping.
func RunTripRepo(t *testing.T, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	key := testPlanKey(domain.CenterID(uuid.NewString()))
	t0 := makeTrip(key, 0, now)
	t1 := makeTrip(key, 1, now)

	if err := repo.CreatePlan(ctx, key, []domain.Trip{t0, t1}); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	// A second plan for the same key must lose, whatever it carries.
	rival := makeTrip(key, 0, now)
	if err := repo.CreatePlan(ctx, key, []domain.Trip{rival}); !errors.Is(err, triprepoport.ErrPlanExists) {
		t.Fatalf("CreatePlan rival: err = %v, want ErrPlanExists", err)
	}

	// The losing attempt must not have touched the stored plan.
	got, err := repo.ListByPlanKey(ctx, key)
	if err != nil {
		t.Fatalf("ListByPlanKey: %v", err)
	}
	if len(got) != 2 || got[0].ID != t0.ID || got[1].ID != t1.ID {
		t.Fatalf("unexpected plan contents: %+v", got)
	}
	if got[0].Seq != 0 || got[1].Seq != 1 {
		t.Fatalf("trips not ordered by seq: %d, %d", got[0].Seq, got[1].Seq)
	}

	// Keys are matched in normalized date-only form.
	noonKey := key
	noonKey.Date = key.Date.Add(12 * time.Hour)
	if got, err = repo.ListByPlanKey(ctx, noonKey); err != nil || len(got) != 2 {
		t.Fatalf("ListByPlanKey(noon): got %d trips, err = %v", len(got), err)
	}

	// Unknown keys are an empty plan, not an error.
	if got, err = repo.ListByPlanKey(ctx, testPlanKey(domain.CenterID(uuid.NewString()))); err != nil || len(got) != 0 {
		t.Fatalf("ListByPlanKey(unknown): got %d trips, err = %v", len(got), err)
	}

	// GetByID round-trips the whole trip, lifecycle state included.
	fetched, err := repo.GetByID(ctx, t0.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fetched.ID != t0.ID || fetched.Key != key || len(fetched.Stops) != 1 {
		t.Fatalf("unexpected trip: %+v", fetched)
	}
	if fetched.Stage() != domain.TripStagePlanned || len(fetched.Audit) != 1 {
		t.Fatalf("lifecycle state lost: stage=%q audit=%d", fetched.Stage(), len(fetched.Audit))
	}
	if fetched.Stops[0].Status != domain.StopStatusPlanned || fetched.TotalExpectedWeightKg != 25.5 {
		t.Fatalf("stop state lost: %+v", fetched.Stops[0])
	}
	if !fetched.Stops[0].PlannedArrival.Equal(t0.Stops[0].PlannedArrival) {
		t.Fatalf("planned arrival drifted: %v vs %v", fetched.Stops[0].PlannedArrival, t0.Stops[0].PlannedArrival)
	}

	if _, err = repo.GetByID(ctx, domain.TripID(uuid.NewString())); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByID(unknown): err = %v, want ErrNotFound", err)
	}

	// Save persists a mutated lifecycle.
	later := now.Add(9 * time.Hour)
	if _, err := fetched.SetStopStatus(0, domain.StopStatusUpdate{Status: domain.StopStatusArrived}, later, "driver-7"); err != nil {
		t.Fatalf("SetStopStatus: %v", err)
	}
	if err := fetched.AdvanceStage(domain.TripStageAssigned, later, "dispatch", ""); err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}
	if err := repo.Save(ctx, fetched); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := repo.GetByID(ctx, t0.ID)
	if err != nil {
		t.Fatalf("GetByID after save: %v", err)
	}
	if saved.Stops[0].Status != domain.StopStatusArrived || saved.Stage() != domain.TripStageAssigned {
		t.Fatalf("save did not stick: %+v", saved)
	}
	if len(saved.Audit) != 3 {
		t.Fatalf("audit trail = %d entries, want 3", len(saved.Audit))
	}
	if entries := saved.StageLog.Entries; len(entries) != 2 || entries[0].Current || !entries[1].Current {
		t.Fatalf("stage track lost history: %+v", entries)
	}

	// Save is an update, never an upsert.
	stray := makeTrip(testPlanKey(domain.CenterID(uuid.NewString())), 0, now)
	if err := repo.Save(ctx, stray); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("Save(unknown): err = %v, want ErrNotFound", err)
	}
}

// RunOrderRepo exercises listing approved pickup orders by plan key.
func RunOrderRepo(t *testing.T, newRepo OrderRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, seed, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := testPlanKey(domain.CenterID(uuid.NewString()))
	otherKey := testPlanKey(domain.CenterID(uuid.NewString()))

	// Ids are run-unique so repeated runs against a persistent database
	// never collide.
	oid := func(s string) domain.OrderID { return domain.OrderID(s + "-" + uuid.NewString()[:8]) }
	o1ID, o2ID, o3ID := oid("o-1"), oid("o-2"), oid("o-3")

	final := 40.5
	forecast := 25.0
	orders := []orderrepoport.PickupOrder{
		{
			ID: o1ID, FarmerID: "f-1", FarmerName: "Dana", FarmName: "Green Acres", ItemID: "apples",
			Location:      &domain.PickupLocation{Label: "North Gate", GeoPoint: domain.GeoPoint{Lon: 34.85, Lat: 32.11}},
			FinalWeightKg: &final,
		},
		{
			ID: o2ID, FarmerID: "f-2", FarmerName: "Omer", FarmName: "Hilltop", ItemID: "potatoes",
			Location:         &domain.PickupLocation{Label: "Hilltop Yard", GeoPoint: domain.GeoPoint{Lon: 34.90, Lat: 32.15}},
			ForecastWeightKg: &forecast,
		},
		{
			// An order that never got a location still lists; the planner is
			// the one that drops it.
			ID: o3ID, FarmerID: "f-3", FarmerName: "Noa", FarmName: "Riverside", ItemID: "apples",
		},
	}
	seed(t, key, orders)
	seed(t, otherKey, []orderrepoport.PickupOrder{{
		ID: oid("o-other"), FarmerID: "f-9", FarmerName: "Eli", FarmName: "Far Field", ItemID: "apples",
		Location: &domain.PickupLocation{Label: "Far Gate", GeoPoint: domain.GeoPoint{Lon: 35.0, Lat: 32.2}},
	}})

	got, err := repo.ListApproved(ctx, key)
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d orders, want 3", len(got))
	}
	byID := map[domain.OrderID]orderrepoport.PickupOrder{}
	for _, o := range got {
		byID[o.ID] = o
	}
	o1, ok := byID[o1ID]
	if !ok || o1.FinalWeightKg == nil || *o1.FinalWeightKg != 40.5 {
		t.Fatalf("o-1 lost its final weight: %+v", o1)
	}
	if o1.Location == nil || o1.Location.Label != "North Gate" || o1.Location.Lat != 32.11 {
		t.Fatalf("o-1 lost its location: %+v", o1.Location)
	}
	o2 := byID[o2ID]
	if o2.FinalWeightKg != nil || o2.ForecastWeightKg == nil || *o2.ForecastWeightKg != 25.0 {
		t.Fatalf("o-2 weight figures wrong: %+v", o2)
	}
	if o3 := byID[o3ID]; o3.Location != nil {
		t.Fatalf("o-3 grew a location: %+v", o3.Location)
	}

	// Date normalization: a key carrying a time of day matches the same date.
	noonKey := key
	noonKey.Date = key.Date.Add(12 * time.Hour)
	if got, err = repo.ListApproved(ctx, noonKey); err != nil || len(got) != 3 {
		t.Fatalf("ListApproved(noon): got %d orders, err = %v", len(got), err)
	}

	// Unknown key is an empty day, not an error.
	if got, err = repo.ListApproved(ctx, testPlanKey(domain.CenterID(uuid.NewString()))); err != nil || len(got) != 0 {
		t.Fatalf("ListApproved(unknown): got %d orders, err = %v", len(got), err)
	}
}

// RunCatalog exercises item lookup and container size listing.
func RunCatalog(t *testing.T, newCatalog CatalogFactory) {
	t.Helper()
	ctx := context.Background()

	cat, seed, cleanup := newCatalog(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	crate := domain.ContainerSizeID("crate-" + uuid.NewString()[:8])
	sack := domain.ContainerSizeID("sack-" + uuid.NewString()[:8])
	apples := domain.ItemID("apples-" + uuid.NewString()[:8])
	potatoes := domain.ItemID("potatoes-" + uuid.NewString()[:8])
	seed(t,
		[]catalogport.Item{
			{ID: apples, Name: "Apples", ContainerSizeID: &crate},
			{ID: potatoes, Name: "Potatoes", ContainerSizeID: &sack},
		},
		[]catalogport.ContainerSize{
			{ID: crate, Label: "Crate 20", CapacityKg: 20},
			{ID: sack, Label: "Sack 25", CapacityKg: 25},
		},
	)

	items, err := cat.Items(ctx, []domain.ItemID{apples, potatoes, "no-such-item"})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (unknown ids are simply absent)", len(items))
	}
	a := items[apples]
	if a.Name != "Apples" || a.ContainerSizeID == nil || *a.ContainerSizeID != crate {
		t.Fatalf("apples came back wrong: %+v", a)
	}

	if items, err = cat.Items(ctx, nil); err != nil || len(items) != 0 {
		t.Fatalf("Items(nil): got %d, err = %v", len(items), err)
	}

	sizes, err := cat.ContainerSizes(ctx)
	if err != nil {
		t.Fatalf("ContainerSizes: %v", err)
	}
	byID := map[domain.ContainerSizeID]catalogport.ContainerSize{}
	for _, s := range sizes {
		byID[s.ID] = s
	}
	if byID[crate].CapacityKg != 20 || byID[sack].CapacityKg != 25 {
		t.Fatalf("sizes lost capacity: %+v", sizes)
	}
}

// RunShiftConfig exercises shift window resolution.
func RunShiftConfig(t *testing.T, newProvider ShiftConfigFactory) {
	t.Helper()
	ctx := context.Background()

	provider, seed, cleanup := newProvider(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	center := domain.CenterID(uuid.NewString())
	seed(t, center, domain.ShiftMorning, 5, 30)

	date := time.Date(2025, 6, 2, 14, 45, 0, 0, time.UTC) // time of day must be ignored
	got, err := provider.ShiftStart(ctx, center, domain.ShiftMorning, date)
	if err != nil {
		t.Fatalf("ShiftStart: %v", err)
	}
	want := time.Date(2025, 6, 2, 5, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ShiftStart = %v, want %v", got, want)
	}

	if _, err = provider.ShiftStart(ctx, center, domain.ShiftNight, date); !errors.Is(err, shiftconfigport.ErrNotConfigured) {
		t.Fatalf("unconfigured shift: err = %v, want ErrNotConfigured", err)
	}
	if _, err = provider.ShiftStart(ctx, domain.CenterID(uuid.NewString()), domain.ShiftMorning, date); !errors.Is(err, shiftconfigport.ErrNotConfigured) {
		t.Fatalf("unconfigured center: err = %v, want ErrNotConfigured", err)
	}
}
