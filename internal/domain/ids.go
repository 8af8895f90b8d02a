package domain

// CenterID identifies a logistics center (the warehouse base trips depart from
// and return to). We model it as an opaque identifier: its format is controlled
// by the upstream center registry.
type CenterID string

// TripID is an internal identifier for a delivery trip record.
type TripID string

// OrderID identifies a farmer pickup order in the external order repository.
type OrderID string

// FarmerID identifies the farmer who placed a pickup order.
type FarmerID string

// ItemID identifies a produce item in the item catalog.
type ItemID string

// ContainerSizeID identifies a container size in the container catalog.
type ContainerSizeID string
