package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	origin := GeoPoint{}

	assert.Zero(t, DistanceMeters(origin, origin))

	// One degree of latitude on this sphere is ~111.3 km.
	oneDeg := DistanceMeters(origin, GeoPoint{Latitude: 1})
	assert.InDelta(t, 111317, oneDeg, 50)

	// Longitude first: swapping the coordinates of an off-axis point changes the result.
	a := GeoPoint{Longitude: 55.27, Latitude: 25.20}
	b := GeoPoint{Longitude: 25.20, Latitude: 55.27}
	assert.NotEqual(t, DistanceMeters(origin, a), DistanceMeters(origin, b))
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := GeoPoint{Longitude: 55.2708, Latitude: 25.2048}
	b := GeoPoint{Longitude: 55.3, Latitude: 25.25}
	assert.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-6)
}

func TestGeoPoint_Valid(t *testing.T) {
	assert.True(t, GeoPoint{Longitude: 180, Latitude: -90}.Valid())
	assert.False(t, GeoPoint{Longitude: 181}.Valid())
	assert.False(t, GeoPoint{Latitude: 90.5}.Valid())
}
