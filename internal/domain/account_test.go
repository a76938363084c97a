package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, ok := ParseRole(" Garage ")
	require.True(t, ok)
	assert.Equal(t, RoleGarage, role)

	role, ok = ParseRole("customer")
	require.True(t, ok)
	assert.Equal(t, RoleCustomer, role)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestNewCustomer_FixesRoleAndDefaults(t *testing.T) {
	c := NewCustomer(Account{Role: RoleGarage, Email: "a@b.c"}, &Address{City: "Dubai"})
	assert.Equal(t, RoleCustomer, c.Role)
	require.NotNil(t, c.Address)
	assert.Equal(t, "UAE", c.Address.Country)
	assert.Empty(t, c.Vehicles)
	assert.NotNil(t, c.PreferredGarages)
}

func TestNewGarage_FixesRoleAndDefaults(t *testing.T) {
	g := NewGarage(Account{Role: RoleCustomer}, "Fix-It", "LIC-1", Address{Street: "1 Main", City: "Austin", State: "TX", ZipCode: "73301"})
	assert.Equal(t, RoleGarage, g.Role)
	assert.Equal(t, "USA", g.Address.Country)
	assert.True(t, g.IsActive)
	assert.False(t, g.IsVerified)
	assert.True(t, g.OperatingHours.Monday.IsOpen)
	assert.False(t, g.OperatingHours.Sunday.IsOpen)
	assert.Zero(t, g.Ratings.Count)
}

func TestGarage_HasReviewFrom(t *testing.T) {
	g := &Garage{Reviews: []Review{{CustomerID: "c1"}, {CustomerID: "c2"}}}
	assert.True(t, g.HasReviewFrom("c2"))
	assert.False(t, g.HasReviewFrom("c3"))
}

func TestGaragePatch_Apply(t *testing.T) {
	g := NewGarage(Account{FirstName: "Old"}, "Old Name", "LIC", Address{})
	name := "New Name"
	active := false
	GaragePatch{
		GarageName: &name,
		Location:   &GeoPoint{Longitude: 1, Latitude: 2},
		IsActive:   &active,
	}.Apply(g)

	assert.Equal(t, "New Name", g.GarageName)
	assert.Equal(t, "Old", g.FirstName)
	require.NotNil(t, g.Location)
	assert.Equal(t, [2]float64{1, 2}, g.Location.Coordinates())
	assert.False(t, g.IsActive)
	assert.Equal(t, RoleGarage, g.Role)
}

func TestDefaultOperatingHours(t *testing.T) {
	h := DefaultOperatingHours()
	for _, day := range Weekdays {
		assert.Equal(t, DefaultOpen(day), h.Day(day).IsOpen, day)
	}
	assert.Nil(t, h.Day("funday"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}
