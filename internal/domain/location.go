package domain

import (
	"fmt"
	"math"
	"strconv"
)

// GeoPoint is a geographic coordinate pair (longitude, latitude) in degrees.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// Valid reports whether both coordinates are finite numbers. Callers of the
// travel estimator are responsible for checking this before estimating.
func (p GeoPoint) Valid() bool {
	return !math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0) &&
		!math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0)
}

// PickupLocation is where a farmer order is collected: a free-text label plus
// coordinates. Two locations are the same stop only if label and both
// coordinates match exactly; physically adjacent but distinctly labeled
// addresses are separate stops.
type PickupLocation struct {
	Label string
	GeoPoint
}

// Key returns the exact grouping identity used by stop aggregation.
// Coordinates are formatted with full float precision so the key is
// byte-identical for equal inputs and never merges by proximity.
func (l PickupLocation) Key() string {
	return l.Label + "|" + formatCoord(l.Lon) + "|" + formatCoord(l.Lat)
}

func formatCoord(f float64) string {
	if f == 0 {
		f = 0 // fold negative zero: -0.0 and 0.0 are the same coordinate
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (l PickupLocation) String() string {
	return fmt.Sprintf("%s (%g,%g)", l.Label, l.Lon, l.Lat)
}
