package shiftconfig

import (
	"context"
	"errors"
	"time"

	"github.com/DFCPagro/DFCP-sub005/internal/domain"
)

// ErrNotConfigured is returned when a center has no shift window for the
// requested shift. Planning cannot proceed without a start instant.
var ErrNotConfigured = errors.New("shift window not configured")

// Provider resolves the wall-clock start of a center's shift on a date.
type Provider interface {
	// ShiftStart returns the instant the shift begins, in the center's
	// local zone. date carries date-only semantics (see domain.DateOnly).
	ShiftStart(ctx context.Context, center domain.CenterID, shift domain.Shift, date time.Time) (time.Time, error)
}
