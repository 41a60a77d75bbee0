// Package geo holds the great-circle math used for check-in proximity and
// nearby-gym search.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// Coordinate is a WGS 84 point in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// DistanceKm returns the haversine distance in kilometres between two points.
// Inputs are not range-checked; the result is always finite for finite input.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad, lon1Rad := toRadians(lat1), toRadians(lon1)
	lat2Rad, lon2Rad := toRadians(lat2), toRadians(lon2)
	dLat, dLon := lat2Rad-lat1Rad, lon2Rad-lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a slightly past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Between is DistanceKm for two Coordinates.
func Between(from, to Coordinate) float64 {
	return DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
