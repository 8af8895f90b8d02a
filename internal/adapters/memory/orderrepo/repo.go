package orderrepo

import (
	"context"
	"sync"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
)

// Repo is an in-memory implementation of orderrepo.Repository. It is safe
// for concurrent use and doubles as the seed store for tests and demo runs.
type Repo struct {
	mu    sync.RWMutex
	byKey map[domain.PlanKey][]orderrepo.PickupOrder
}

func NewRepo() *Repo {
	return &Repo{
		byKey: make(map[domain.PlanKey][]orderrepo.PickupOrder),
	}
}

// Put registers an approved order under the plan key. Orders keep their
// insertion order within a key; ListApproved replays them unchanged.
func (r *Repo) Put(key domain.PlanKey, o orderrepo.PickupOrder) {
	key = key.Normalize()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[key] = append(r.byKey[key], cloneOrder(o))
}

func (r *Repo) ListApproved(ctx context.Context, key domain.PlanKey) ([]orderrepo.PickupOrder, error) {
	_ = ctx
	key = key.Normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]orderrepo.PickupOrder, 0, len(r.byKey[key]))
	for _, o := range r.byKey[key] {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func cloneOrder(o orderrepo.PickupOrder) orderrepo.PickupOrder {
	cp := o
	if o.Location != nil {
		v := *o.Location
		cp.Location = &v
	}
	cp.FinalWeightKg = cloneFloatPtr(o.FinalWeightKg)
	cp.ForecastWeightKg = cloneFloatPtr(o.ForecastWeightKg)
	cp.OrderedWeightKg = cloneFloatPtr(o.OrderedWeightKg)
	return cp
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
