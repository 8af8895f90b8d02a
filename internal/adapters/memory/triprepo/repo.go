package triprepo

import (
	"context"
	"sort"
	"sync"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/domain/stageflow"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use. Plan-key uniqueness is enforced under the
// same lock that stores the trips, so concurrent CreatePlan calls for one
// key serialize exactly like a database unique index.
type Repo struct {
	mu    sync.RWMutex
	byID  map[domain.TripID]domain.Trip
	plans map[domain.PlanKey][]domain.TripID
}

func NewRepo() *Repo {
	return &Repo{
		byID:  make(map[domain.TripID]domain.Trip),
		plans: make(map[domain.PlanKey][]domain.TripID),
	}
}

func (r *Repo) CreatePlan(ctx context.Context, key domain.PlanKey, trips []domain.Trip) error {
	_ = ctx
	key = key.Normalize()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[key]; ok {
		return triprepo.ErrPlanExists
	}
	ids := make([]domain.TripID, 0, len(trips))
	for _, t := range trips {
		r.byID[t.ID] = cloneTrip(t)
		ids = append(ids, t.ID)
	}
	r.plans[key] = ids
	return nil
}

func (r *Repo) ListByPlanKey(ctx context.Context, key domain.PlanKey) ([]domain.Trip, error) {
	_ = ctx
	key = key.Normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0, len(r.plans[key]))
	for _, id := range r.plans[key] {
		if t, ok := r.byID[id]; ok {
			out = append(out, cloneTrip(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) Save(ctx context.Context, t domain.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return triprepo.ErrNotFound
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	if t.Stops != nil {
		cp.Stops = make([]domain.TripStop, len(t.Stops))
		for i, s := range t.Stops {
			cs := s
			if s.OrderIDs != nil {
				cs.OrderIDs = append([]domain.OrderID(nil), s.OrderIDs...)
			}
			cp.Stops[i] = cs
		}
	}
	if t.StageLog.Entries != nil {
		cp.StageLog.Entries = append([]stageflow.Entry[domain.TripStage](nil), t.StageLog.Entries...)
	}
	if t.Audit != nil {
		cp.Audit = append([]domain.AuditEntry(nil), t.Audit...)
	}
	return cp
}
