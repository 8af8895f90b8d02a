package catalog

import (
	"context"
	"testing"

	"github.com/DFCPagro/DFCP-sub005/internal/adapters/contracttest"
	"github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/testutil"
	catalogport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
)

func TestContract_PostgresCatalog(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunCatalog(t, func(t *testing.T) (catalogport.Catalog, contracttest.SeedCatalogFunc, func()) {
		t.Helper()
		seed := func(t *testing.T, items []catalogport.Item, sizes []catalogport.ContainerSize) {
			t.Helper()
			ctx := context.Background()
			for _, cs := range sizes {
				_, err := pool.Exec(ctx, `
					INSERT INTO container_sizes (id, label, capacity_kg)
					VALUES ($1, $2, $3)
					ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, capacity_kg = EXCLUDED.capacity_kg
				`, string(cs.ID), cs.Label, cs.CapacityKg)
				if err != nil {
					t.Fatalf("seed size %s: %v", cs.ID, err)
				}
			}
			for _, it := range items {
				var sizeID *string
				if it.ContainerSizeID != nil {
					v := string(*it.ContainerSizeID)
					sizeID = &v
				}
				_, err := pool.Exec(ctx, `
					INSERT INTO items (id, name, container_size_id)
					VALUES ($1, $2, $3)
					ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, container_size_id = EXCLUDED.container_size_id
				`, string(it.ID), it.Name, sizeID)
				if err != nil {
					t.Fatalf("seed item %s: %v", it.ID, err)
				}
			}
		}
		return NewStore(pool), seed, nil
	})
}
