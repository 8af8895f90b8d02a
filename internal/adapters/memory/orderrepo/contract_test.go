package orderrepo

import (
	"testing"

	"github.com/DFCPagro/DFCP-sub005/internal/adapters/contracttest"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	orderrepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
)

func TestContract_OrderRepo(t *testing.T) {
	contracttest.RunOrderRepo(t, func(t *testing.T) (orderrepoport.Repository, contracttest.SeedOrdersFunc, func()) {
		t.Helper()
		r := NewRepo()
		seed := func(t *testing.T, key domain.PlanKey, orders []orderrepoport.PickupOrder) {
			t.Helper()
			for _, o := range orders {
				r.Put(key, o)
			}
		}
		return r, seed, nil
	})
}
