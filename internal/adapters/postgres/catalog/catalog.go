package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/catalog"
)

// Store is a Postgres implementation of catalog.Catalog.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Items(ctx context.Context, ids []domain.ItemID) (map[domain.ItemID]catalog.Item, error) {
	if s.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	out := make(map[domain.ItemID]catalog.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, container_size_id
		FROM items
		WHERE id = ANY($1)
	`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			name   string
			sizeID *string
		)
		if err := rows.Scan(&id, &name, &sizeID); err != nil {
			return nil, err
		}
		item := catalog.Item{ID: domain.ItemID(id), Name: name}
		if sizeID != nil {
			v := domain.ContainerSizeID(*sizeID)
			item.ContainerSizeID = &v
		}
		out[item.ID] = item
	}
	return out, rows.Err()
}

func (s *Store) ContainerSizes(ctx context.Context) ([]catalog.ContainerSize, error) {
	if s.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, label, capacity_kg
		FROM container_sizes
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.ContainerSize, 0)
	for rows.Next() {
		var (
			cs catalog.ContainerSize
			id string
		)
		if err := rows.Scan(&id, &cs.Label, &cs.CapacityKg); err != nil {
			return nil, err
		}
		cs.ID = domain.ContainerSizeID(id)
		out = append(out, cs)
	}
	return out, rows.Err()
}
