package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/DFCPagro/DFCP-sub005/internal/adapters/httpapi"
	memcatalog "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/catalog"
	memorderrepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/orderrepo"
	mempacking "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/packing"
	memshiftconfig "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/shiftconfig"
	memtriprepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/triprepo"
	pgcatalog "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/catalog"
	pgorderrepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/orderrepo"
	pgshiftconfig "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/shiftconfig"
	postgres_testutil "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/testutil"
	pgtriprepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/triprepo"
	"github.com/DFCPagro/DFCP-sub005/internal/app/loading"
	"github.com/DFCPagro/DFCP-sub005/internal/app/planner"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	catalogport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
	orderrepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type testServer struct {
	baseURL string
	client  *http.Client

	// center is unique per server so parallel postgres runs never share a
	// plan key.
	center string
	date   time.Time
}

// seedFuncs abstracts how a backend plants reference and order data.
type seedFuncs struct {
	orders  func(t *testing.T, key domain.PlanKey, orders []orderrepoport.PickupOrder)
	catalog func(t *testing.T, items []catalogport.Item, sizes []catalogport.ContainerSize)
	window  func(t *testing.T, center domain.CenterID, shift domain.Shift, hour, minute int)
}

func newTestServer(t *testing.T, b backend) (*testServer, seedFuncs) {
	t.Helper()

	var (
		plannerSvc *planner.Service
		loadingSvc *loading.Service
		seeds      seedFuncs
	)
	clk := fixedClock{now: time.Date(2025, 6, 2, 5, 0, 0, 0, time.UTC)}

	switch b {
	case backendMemory:
		orders := memorderrepo.NewRepo()
		trips := memtriprepo.NewRepo()
		cat := memcatalog.NewStore()
		shifts := memshiftconfig.NewProvider()

		seeds = seedFuncs{
			orders: func(t *testing.T, key domain.PlanKey, list []orderrepoport.PickupOrder) {
				for _, o := range list {
					orders.Put(key, o)
				}
			},
			catalog: func(t *testing.T, items []catalogport.Item, sizes []catalogport.ContainerSize) {
				for _, cs := range sizes {
					cat.PutContainerSize(cs)
				}
				for _, it := range items {
					cat.PutItem(it)
				}
			},
			window: func(t *testing.T, center domain.CenterID, shift domain.Shift, hour, minute int) {
				shifts.SetWindow(center, shift, memshiftconfig.Window{Hour: hour, Minute: minute})
			},
		}
		plannerSvc = planner.NewService(orders, trips, cat, shifts, mempacking.NewEstimator(), planner.GreedyPacker{}, clk)
		loadingSvc = loading.NewService(trips, clk)

	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)

		seeds = seedFuncs{
			orders: func(t *testing.T, key domain.PlanKey, list []orderrepoport.PickupOrder) {
				t.Helper()
				key = key.Normalize()
				for _, o := range list {
					var label *string
					var lon, lat *float64
					if o.Location != nil {
						label, lon, lat = &o.Location.Label, &o.Location.Lon, &o.Location.Lat
					}
					_, err := pool.Exec(context.Background(), `
						INSERT INTO pickup_orders (
							id, center_id, service_date, shift, status,
							farmer_id, farmer_name, farm_name, item_id,
							location_label, location_lon, location_lat,
							final_weight_kg, forecast_weight_kg, ordered_weight_kg
						) VALUES ($1,$2,$3,$4,'approved',$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
					`,
						string(o.ID), string(key.Center), key.Date, string(key.Shift),
						string(o.FarmerID), o.FarmerName, o.FarmName, string(o.ItemID),
						label, lon, lat,
						o.FinalWeightKg, o.ForecastWeightKg, o.OrderedWeightKg,
					)
					if err != nil {
						t.Fatalf("seed order %s: %v", o.ID, err)
					}
				}
			},
			catalog: func(t *testing.T, items []catalogport.Item, sizes []catalogport.ContainerSize) {
				t.Helper()
				ctx := context.Background()
				for _, cs := range sizes {
					if _, err := pool.Exec(ctx, `
						INSERT INTO container_sizes (id, label, capacity_kg) VALUES ($1,$2,$3)
						ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, capacity_kg = EXCLUDED.capacity_kg
					`, string(cs.ID), cs.Label, cs.CapacityKg); err != nil {
						t.Fatalf("seed size %s: %v", cs.ID, err)
					}
				}
				for _, it := range items {
					var sizeID *string
					if it.ContainerSizeID != nil {
						v := string(*it.ContainerSizeID)
						sizeID = &v
					}
					if _, err := pool.Exec(ctx, `
						INSERT INTO items (id, name, container_size_id) VALUES ($1,$2,$3)
						ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, container_size_id = EXCLUDED.container_size_id
					`, string(it.ID), it.Name, sizeID); err != nil {
						t.Fatalf("seed item %s: %v", it.ID, err)
					}
				}
			},
			window: func(t *testing.T, center domain.CenterID, shift domain.Shift, hour, minute int) {
				t.Helper()
				if _, err := pool.Exec(context.Background(), `
					INSERT INTO shift_windows (center_id, shift, start_hour, start_minute, tz)
					VALUES ($1,$2,$3,$4,'UTC')
					ON CONFLICT (center_id, shift) DO UPDATE SET
						start_hour = EXCLUDED.start_hour, start_minute = EXCLUDED.start_minute
				`, string(center), string(shift), hour, minute); err != nil {
					t.Fatalf("seed window: %v", err)
				}
			},
		}
		plannerSvc = planner.NewService(
			pgorderrepo.NewRepo(pool), pgtriprepo.NewRepo(pool), pgcatalog.NewStore(pool),
			pgshiftconfig.NewProvider(pool), mempacking.NewEstimator(), planner.GreedyPacker{}, clk)
		loadingSvc = loading.NewService(pgtriprepo.NewRepo(pool), clk)
	}

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewServer(plannerSvc, loadingSvc)))
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		center:  "itest-" + uuid.NewString()[:8],
		date:    time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	}, seeds
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, s.baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, data
}
