package catalog

import (
	"context"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// Item is the slice of catalog data the planner needs for a produce item.
type Item struct {
	ID   domain.ItemID
	Name string
	// ContainerSizeID names the container the item is packed into for
	// transport; nil means the item has no container assignment yet.
	ContainerSizeID *domain.ContainerSizeID
}

// ContainerSize describes one reusable transport container.
type ContainerSize struct {
	ID    domain.ContainerSizeID
	Label string
	// CapacityKg is the nominal fill weight of one container.
	CapacityKg float64
}

// Catalog provides read access to item and container-size reference data.
// Planning runs preload both up front instead of querying per order.
type Catalog interface {
	// Items returns the items for the given IDs, keyed by ID. IDs with no
	// catalog entry are simply absent from the result.
	Items(ctx context.Context, ids []domain.ItemID) (map[domain.ItemID]Item, error)

	// ContainerSizes returns every known container size.
	ContainerSizes(ctx context.Context) ([]ContainerSize, error)
}
