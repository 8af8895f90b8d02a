package triprepo

import (
	"testing"

	"github.com/DFCPagro/DFCP-sub005/internal/adapters/contracttest"
	"github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres/testutil"
	triprepoport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
)

func TestContract_PostgresTripRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunTripRepo(t, func(t *testing.T) (triprepoport.Repository, func()) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
