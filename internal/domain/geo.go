package domain

import "math"

// EarthRadiusMeters is the sphere radius used for distance queries.
const EarthRadiusMeters = 6378100.0

// DefaultSearchRadiusMeters applies when a nearby query names no radius.
const DefaultSearchRadiusMeters = 10000.0

// DistanceMeters returns the great-circle distance between two points.
func DistanceMeters(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}
