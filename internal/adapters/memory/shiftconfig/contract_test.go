package shiftconfig

import (
	"testing"

	"github.com/DFCPagro/DFCP-sub005/internal/adapters/contracttest"
	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	shiftconfigport "github.com/DFCPagro/DFCP-sub005/internal/ports/out/shiftconfig"
)

func TestContract_ShiftConfig(t *testing.T) {
	contracttest.RunShiftConfig(t, func(t *testing.T) (shiftconfigport.Provider, contracttest.SeedWindowFunc, func()) {
		t.Helper()
		p := NewProvider()
		seed := func(t *testing.T, center domain.CenterID, shift domain.Shift, hour, minute int) {
			t.Helper()
			p.SetWindow(center, shift, Window{Hour: hour, Minute: minute})
		}
		return p, seed, nil
	})
}
