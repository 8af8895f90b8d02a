package orderrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/orderrepo"
)

// Repo is a Postgres implementation of orderrepo.Repository. The planner only
// ever reads approved orders for one plan key, so that is the single query
// this adapter knows.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) ListApproved(ctx context.Context, key domain.PlanKey) ([]orderrepo.PickupOrder, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	key = key.Normalize()

	rows, err := r.pool.Query(ctx, `
		SELECT
			id,
			farmer_id,
			farmer_name,
			farm_name,
			item_id,
			location_label,
			location_lon,
			location_lat,
			final_weight_kg,
			forecast_weight_kg,
			ordered_weight_kg
		FROM pickup_orders
		WHERE center_id = $1 AND service_date = $2 AND shift = $3 AND status = 'approved'
		ORDER BY created_at ASC, id ASC
	`, string(key.Center), dateOf(key.Date), string(key.Shift))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orderrepo.PickupOrder, 0)
	for rows.Next() {
		var (
			o        orderrepo.PickupOrder
			id       string
			farmerID string
			itemID   string
			label    *string
			lon, lat *float64
		)
		if err := rows.Scan(
			&id,
			&farmerID,
			&o.FarmerName,
			&o.FarmName,
			&itemID,
			&label,
			&lon,
			&lat,
			&o.FinalWeightKg,
			&o.ForecastWeightKg,
			&o.OrderedWeightKg,
		); err != nil {
			return nil, err
		}
		o.ID = domain.OrderID(id)
		o.FarmerID = domain.FarmerID(farmerID)
		o.ItemID = domain.ItemID(itemID)
		o.Location = locationFromColumns(label, lon, lat)
		out = append(out, o)
	}
	return out, rows.Err()
}

// locationFromColumns maps the three nullable columns back to a pickup
// location. An order only has a location when all three are present.
func locationFromColumns(label *string, lon, lat *float64) *domain.PickupLocation {
	if label == nil || lon == nil || lat == nil {
		return nil
	}
	return &domain.PickupLocation{
		Label:    *label,
		GeoPoint: domain.GeoPoint{Lon: *lon, Lat: *lat},
	}
}

func dateOf(t time.Time) pgtype.Date {
	tt := t.UTC()
	return pgtype.Date{
		Time:  time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}
