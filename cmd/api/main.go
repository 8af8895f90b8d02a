package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DFCPagro/DFCP-sub005/internal/adapters/httpapi"
	memcatalog "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/catalog"
	memorderrepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/orderrepo"
	mempacking "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/packing"
	memshiftconfig "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/shiftconfig"
	memtriprepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/memory/triprepo"
	postgres "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres"
	pgcatalog "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/catalog"
	pgorderrepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/orderrepo"
	pgshiftconfig "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/shiftconfig"
	pgtriprepo "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/triprepo"
	"github.com/DFCPagro/DFCP-sub005/internal/app/loading"
	"github.com/DFCPagro/DFCP-sub005/internal/app/planner"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	platformclock "github.com/DFCPagro/DFCP-sub005/internal/platform/clock"
	"github.com/DFCPagro/DFCP-sub005/internal/platform/config"
	catalogport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
	orderrepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
	shiftconfigport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/shiftconfig"
	triprepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
	"github.com/DFCPagro/DFCP-sub005/migrations"
)

// main is the application composition root. It wires concrete adapters
// behind the outbound ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (using environment variables)")
	}

	cfg, err := config.LoadServerConfigFromEnv()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	clk := platformclock.NewSystemClock()

	var (
		orderRepo orderrepoport.Repository
		tripRepo  triprepoport.Repository
		cat       catalogport.Catalog
		shifts    shiftconfigport.Provider
		cleanup   func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		cleanup = pool.Close
		if err := migrations.Apply(context.Background(), pool); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}

		orderRepo = pgorderrepo.NewRepo(pool)
		tripRepo = pgtriprepo.NewRepo(pool)
		cat = pgcatalog.NewStore(pool)
		shifts = pgshiftconfig.NewProvider(pool)
	default:
		// Memory backend seeds demo data on startup for local runs.
		memOrders := memorderrepo.NewRepo()
		memCatalog := memcatalog.NewStore()
		seedDemo(memOrders, memCatalog, clk.Now())

		orderRepo = memOrders
		tripRepo = memtriprepo.NewRepo()
		cat = memCatalog
		shifts = memshiftconfig.NewProviderWithDefaults()
	}

	if cleanup != nil {
		defer cleanup()
	}

	plannerSvc := planner.NewService(orderRepo, tripRepo, cat, shifts, mempacking.NewEstimator(), planner.GreedyPacker{}, clk)
	loadingSvc := loading.NewService(tripRepo, clk)

	handler := httpapi.NewRouter(httpapi.NewServer(plannerSvc, loadingSvc))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("api listening on :%s storage=%s", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// seedDemo plants a small morning shift for today so a fresh memory-backed
// process answers a plan request with something to route.
func seedDemo(orders *memorderrepo.Repo, cat *memcatalog.Store, now time.Time) {
	crate := domain.ContainerSizeID("crate-20")
	cat.PutContainerSize(catalogport.ContainerSize{ID: crate, Label: "crate 20kg", CapacityKg: 20})
	cat.PutItem(catalogport.Item{ID: "item-tomato", Name: "Tomato", ContainerSizeID: &crate})
	cat.PutItem(catalogport.Item{ID: "item-cucumber", Name: "Cucumber", ContainerSizeID: &crate})

	key := domain.PlanKey{Center: "center-demo", Date: domain.DateOnly(now), Shift: domain.ShiftMorning}
	final := func(v float64) *float64 { return &v }

	orders.Put(key, orderrepoport.PickupOrder{
		ID: "order-demo-1", FarmerID: "farmer-1", FarmerName: "Dana", FarmName: "Green Acres",
		ItemID: "item-tomato",
		Location: &domain.PickupLocation{
			Label:    "Gate 4, Kfar Yona",
			GeoPoint: domain.GeoPoint{Lon: 34.93, Lat: 32.31},
		},
		FinalWeightKg: final(120),
	})
	orders.Put(key, orderrepoport.PickupOrder{
		ID: "order-demo-2", FarmerID: "farmer-2", FarmerName: "Yossi", FarmName: "Emek Farm",
		ItemID: "item-cucumber",
		Location: &domain.PickupLocation{
			Label:    "Emek Hefer packing shed",
			GeoPoint: domain.GeoPoint{Lon: 34.88, Lat: 32.36},
		},
		ForecastWeightKg: final(60),
	})
	log.Printf("seeded demo orders center=%s shift=%s", key.Center, key.Shift)
}
