package dto

import (
	"time"

	"github.com/spec-kit/garage-service/internal/domain"
)

// UpdateCustomerProfileRequest is a partial update. Role and password are not
// representable and are dropped during decoding.
type UpdateCustomerProfileRequest struct {
	FirstName *string         `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string         `json:"lastName"  validate:"omitempty,max=100"`
	Phone     *string         `json:"phone"     validate:"omitempty,max=32"`
	Address   *AddressRequest `json:"address"`
}

// ToPatch converts the request.
func (r UpdateCustomerProfileRequest) ToPatch() domain.CustomerPatch {
	return domain.CustomerPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Address:   r.Address.ToDomain(),
	}
}

// VehicleRequest payload. Every field is optional.
type VehicleRequest struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         *int   `json:"year"`
	LicensePlate string `json:"licensePlate"`
	VIN          string `json:"vin"`
}

// ToDomain converts the request.
func (r VehicleRequest) ToDomain() domain.Vehicle {
	return domain.Vehicle{Make: r.Make, Model: r.Model, Year: r.Year, LicensePlate: r.LicensePlate, VIN: r.VIN}
}

// NearbyQuery captures the nearby-garage query string. Values stay strings so
// absence and malformed numbers can be told apart.
type NearbyQuery struct {
	Longitude   string `query:"longitude"`
	Latitude    string `query:"latitude"`
	MaxDistance string `query:"maxDistance"`
}

// ReviewRequest payload. Rating bounds are enforced by the rating service.
type ReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment" validate:"max=2000"`
}

// CustomerResponse is the caller's full customer profile.
type CustomerResponse struct {
	AccountResponse
	Phone            string                 `json:"phone"`
	Address          *domain.Address        `json:"address,omitempty"`
	Vehicles         []domain.Vehicle       `json:"vehicles"`
	PreferredGarages []string               `json:"preferredGarages"`
	ServiceHistory   []domain.ServiceRecord `json:"serviceHistory"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// NewCustomerResponse projects a customer without its credential.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		AccountResponse:  NewAccountResponse(c.Account),
		Phone:            c.Phone,
		Address:          c.Address,
		Vehicles:         c.Vehicles,
		PreferredGarages: c.PreferredGarages,
		ServiceHistory:   c.ServiceHistory,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// NearbyGarageResponse is one discovery result.
type NearbyGarageResponse struct {
	ID             string                `json:"id"`
	GarageName     string                `json:"garageName"`
	Address        domain.Address        `json:"address"`
	Location       *GeoJSONPoint         `json:"location"`
	Ratings        domain.Ratings        `json:"ratings"`
	Services       []domain.Service      `json:"services"`
	Specialties    []string              `json:"specialties"`
	OperatingHours domain.OperatingHours `json:"operatingHours"`
	DistanceMeters float64               `json:"distanceMeters"`
}

// NewNearbyGarageResponses projects discovery results.
func NewNearbyGarageResponses(items []domain.NearbyGarage) []NearbyGarageResponse {
	out := make([]NearbyGarageResponse, 0, len(items))
	for _, g := range items {
		loc := g.Location
		out = append(out, NearbyGarageResponse{
			ID:             g.ID,
			GarageName:     g.GarageName,
			Address:        g.Address,
			Location:       NewGeoJSONPoint(&loc),
			Ratings:        g.Ratings,
			Services:       g.Services,
			Specialties:    g.Specialties,
			OperatingHours: g.OperatingHours,
			DistanceMeters: g.DistanceMeters,
		})
	}
	return out
}
