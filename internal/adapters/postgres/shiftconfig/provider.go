package shiftconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
	"github.com/DFCPagro/DFCP-sub005/internal/ports/out/shiftconfig"
)

// Provider is a Postgres implementation of shiftconfig.Provider backed by the
// shift_windows table. Windows are wall-clock times in the row's time zone.
type Provider struct {
	pool *pgxpool.Pool
}

func NewProvider(pool *pgxpool.Pool) *Provider {
	return &Provider{pool: pool}
}

func (p *Provider) ShiftStart(ctx context.Context, center domain.CenterID, shift domain.Shift, date time.Time) (time.Time, error) {
	if p.pool == nil {
		return time.Time{}, errors.New("nil postgres pool")
	}

	row := p.pool.QueryRow(ctx, `
		SELECT start_hour, start_minute, tz
		FROM shift_windows
		WHERE center_id = $1 AND shift = $2
	`, string(center), string(shift))

	var (
		hour, minute int
		tz           string
	)
	if err := row.Scan(&hour, &minute, &tz); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, shiftconfig.ErrNotConfigured
		}
		return time.Time{}, err
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("shift window for %s/%s has bad time zone %q: %w", center, shift, tz, err)
	}
	d := domain.DateOnly(date)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}
