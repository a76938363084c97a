package domain

import "time"

// GeoPoint is stored longitude first, latitude second.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether both coordinates are within range.
func (p GeoPoint) Valid() bool {
	return p.Longitude >= -180 && p.Longitude <= 180 && p.Latitude >= -90 && p.Latitude <= 90
}

// Coordinates returns the point in storage order.
func (p GeoPoint) Coordinates() [2]float64 {
	return [2]float64{p.Longitude, p.Latitude}
}

// Service is a catalog entry owned by a garage. Name is optional.
type Service struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	EstimatedTime string   `json:"estimatedTime,omitempty"`
	BasePrice     *float64 `json:"basePrice,omitempty"`
}

// Review is owned by a garage and references the reviewing customer.
type Review struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReviewWithAuthor is a review with the customer's display name resolved.
type ReviewWithAuthor struct {
	Review
	CustomerFirstName string
	CustomerLastName  string
}

// Garage is the garage variant of Account.
type Garage struct {
	Account
	GarageName      string
	BusinessLicense string
	Address         Address
	Location        *GeoPoint
	OperatingHours  OperatingHours
	Services        []Service
	Specialties     []string
	Ratings         Ratings
	Reviews         []Review
	IsVerified      bool
	IsActive        bool
}

// NewGarage builds a garage variant; the role is fixed here and nowhere else.
// New garages are active and unverified.
func NewGarage(base Account, name, license string, address Address) *Garage {
	base.Role = RoleGarage
	if address.Country == "" {
		address.Country = defaultGarageCountry
	}
	return &Garage{
		Account:         base,
		GarageName:      name,
		BusinessLicense: license,
		Address:         address,
		OperatingHours:  DefaultOperatingHours(),
		Services:        []Service{},
		Specialties:     []string{},
		Reviews:         []Review{},
		IsActive:        true,
	}
}

// HasReviewFrom scans the review list for customerID.
func (g *Garage) HasReviewFrom(customerID string) bool {
	for _, r := range g.Reviews {
		if r.CustomerID == customerID {
			return true
		}
	}
	return false
}

// Discoverable reports whether the garage may appear in proximity results.
func (g *Garage) Discoverable() bool {
	return g.IsVerified && g.IsActive && g.Location != nil
}

// Summary projects the public, read-only view used by discovery.
func (g *Garage) Summary(distance float64) NearbyGarage {
	return NearbyGarage{
		ID:             g.ID,
		GarageName:     g.GarageName,
		Address:        g.Address,
		Location:       *g.Location,
		Ratings:        g.Ratings,
		Services:       append([]Service{}, g.Services...),
		Specialties:    append([]string{}, g.Specialties...),
		OperatingHours: g.OperatingHours,
		DistanceMeters: distance,
	}
}

// GaragePatch is a partial profile update. Nil fields are left untouched.
// Role, password, verification and ratings are not representable here.
type GaragePatch struct {
	FirstName       *string
	LastName        *string
	Phone           *string
	GarageName      *string
	BusinessLicense *string
	Address         *Address
	Location        *GeoPoint
	IsActive        *bool
}

// Empty reports whether the patch changes nothing.
func (p GaragePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.GarageName == nil &&
		p.BusinessLicense == nil && p.Address == nil && p.Location == nil && p.IsActive == nil
}

// Apply mutates g in place.
func (p GaragePatch) Apply(g *Garage) {
	if p.FirstName != nil {
		g.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		g.LastName = *p.LastName
	}
	if p.Phone != nil {
		g.Phone = *p.Phone
	}
	if p.GarageName != nil {
		g.GarageName = *p.GarageName
	}
	if p.BusinessLicense != nil {
		g.BusinessLicense = *p.BusinessLicense
	}
	if p.Address != nil {
		addr := *p.Address
		if addr.Country == "" {
			addr.Country = defaultGarageCountry
		}
		g.Address = addr
	}
	if p.Location != nil {
		loc := *p.Location
		g.Location = &loc
	}
	if p.IsActive != nil {
		g.IsActive = *p.IsActive
	}
}

// NearbyGarage is the public projection returned by proximity search.
// Credentials and reviews are never part of it.
type NearbyGarage struct {
	ID             string         `json:"id"`
	GarageName     string         `json:"garageName"`
	Address        Address        `json:"address"`
	Location       GeoPoint       `json:"location"`
	Ratings        Ratings        `json:"ratings"`
	Services       []Service      `json:"services"`
	Specialties    []string       `json:"specialties"`
	OperatingHours OperatingHours `json:"operatingHours"`
	DistanceMeters float64        `json:"distanceMeters"`
}

// NearbyQuery describes a proximity search.
type NearbyQuery struct {
	Point             GeoPoint
	MaxDistanceMeters float64
}
