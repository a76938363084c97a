package dto

import (
	"time"

	"github.com/spec-kit/garage-service/internal/domain"
)

// RegisterRequest is the registration payload for both account types.
// Garage-only fields are ignored for customers; a role field is never read.
type RegisterRequest struct {
	Email           string          `json:"email"           validate:"required,email"`
	Password        string          `json:"password"        validate:"required,min=6,max=72"`
	FirstName       string          `json:"firstName"       validate:"max=100"`
	LastName        string          `json:"lastName"        validate:"max=100"`
	Phone           string          `json:"phone"           validate:"max=32"`
	Address         *AddressRequest `json:"address"`
	GarageName      string          `json:"garageName"      validate:"max=200"`
	BusinessLicense string          `json:"businessLicense" validate:"max=100"`
	Location        *GeoJSONPoint   `json:"location"`
	Longitude       *float64        `json:"longitude"       validate:"omitempty,longitude"`
	Latitude        *float64        `json:"latitude"        validate:"omitempty,latitude"`
}

// LoginRequest payload for login. Presence is checked by the service so that
// every failure shape stays uniform.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddressRequest is a postal address on the wire.
type AddressRequest struct {
	Street  string `json:"street"  validate:"max=200"`
	City    string `json:"city"    validate:"max=100"`
	State   string `json:"state"   validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=20"`
	Country string `json:"country" validate:"max=100"`
}

// ToDomain converts the request.
func (a *AddressRequest) ToDomain() *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

// GeoJSONPoint is a location in GeoJSON order: longitude first.
type GeoJSONPoint struct {
	Type        string    `json:"type"        validate:"omitempty,oneof=Point"`
	Coordinates []float64 `json:"coordinates" validate:"len=2"`
}

// NewGeoJSONPoint projects a stored point.
func NewGeoJSONPoint(p *domain.GeoPoint) *GeoJSONPoint {
	if p == nil {
		return nil
	}
	coords := p.Coordinates()
	return &GeoJSONPoint{Type: "Point", Coordinates: coords[:]}
}

// ResolveLocation picks the GeoJSON location, or the flat pair when both halves are present.
func ResolveLocation(point *GeoJSONPoint, longitude, latitude *float64) *domain.GeoPoint {
	if point != nil && len(point.Coordinates) == 2 {
		return &domain.GeoPoint{Longitude: point.Coordinates[0], Latitude: point.Coordinates[1]}
	}
	if longitude != nil && latitude != nil {
		return &domain.GeoPoint{Longitude: *longitude, Latitude: *latitude}
	}
	return nil
}

// AccountResponse is the public projection of an account.
type AccountResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
}

// NewAccountResponse projects an account without its credential.
func NewAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Email: a.Email, FirstName: a.FirstName, LastName: a.LastName, Role: a.Role}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      AccountResponse `json:"user"`
}
