package domain

import (
	"fmt"
	"math"
)

// Travel time between two points is estimated from great-circle distance at a
// constant assumed road speed. The platform deliberately does not call a
// mapping API for inbound farm runs; rural pickup points are sparse enough
// that a straight-line proxy orders stops correctly.
const (
	earthRadiusKm = 6371.0
	assumedSpeedKmh = 40.0

	// MinTravelMinutes floors every estimate: same-site stops and GPS noise
	// below the model's resolution still cost a parking-and-turnaround.
	MinTravelMinutes = 5
)

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// TravelMinutes estimates driving time between two points in whole minutes,
// rounded to nearest and never below MinTravelMinutes. It is symmetric.
//
// Non-finite coordinates are a broken invariant upstream (orders without
// usable geography must be dropped before planning), so this panics rather
// than returning garbage.
func TravelMinutes(a, b GeoPoint) int {
	if !a.Valid() || !b.Valid() {
		panic(fmt.Sprintf("travel estimate on non-finite coordinates: a=%+v b=%+v", a, b))
	}
	minutes := int(math.Round(HaversineKm(a, b) / assumedSpeedKmh * 60))
	if minutes < MinTravelMinutes {
		return MinTravelMinutes
	}
	return minutes
}
