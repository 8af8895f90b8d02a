package catalog

import (
	"context"
	"sync"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
)

// Store is an in-memory implementation of catalog.Catalog.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[domain.ItemID]catalog.Item
	sizes []catalog.ContainerSize
}

func NewStore() *Store {
	return &Store{
		items: make(map[domain.ItemID]catalog.Item),
	}
}

func (s *Store) PutItem(it catalog.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = cloneItem(it)
}

func (s *Store) PutContainerSize(cs catalog.ContainerSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sizes {
		if s.sizes[i].ID == cs.ID {
			s.sizes[i] = cs
			return
		}
	}
	s.sizes = append(s.sizes, cs)
}

func (s *Store) Items(ctx context.Context, ids []domain.ItemID) (map[domain.ItemID]catalog.Item, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.ItemID]catalog.Item, len(ids))
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			out[id] = cloneItem(it)
		}
	}
	return out, nil
}

func (s *Store) ContainerSizes(ctx context.Context) ([]catalog.ContainerSize, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.ContainerSize(nil), s.sizes...), nil
}

func cloneItem(it catalog.Item) catalog.Item {
	cp := it
	if it.ContainerSizeID != nil {
		v := *it.ContainerSizeID
		cp.ContainerSizeID = &v
	}
	return cp
}
