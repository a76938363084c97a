package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/garage-service/internal/domain"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// UpdateGarageProfileRequest is a partial update. A flat longitude/latitude
// pair is folded into the location only when both are present.
type UpdateGarageProfileRequest struct {
	FirstName       *string         `json:"firstName"       validate:"omitempty,max=100"`
	LastName        *string         `json:"lastName"        validate:"omitempty,max=100"`
	Phone           *string         `json:"phone"           validate:"omitempty,max=32"`
	GarageName      *string         `json:"garageName"      validate:"omitempty,max=200"`
	BusinessLicense *string         `json:"businessLicense" validate:"omitempty,max=100"`
	Address         *AddressRequest `json:"address"`
	Location        *GeoJSONPoint   `json:"location"`
	Longitude       *float64        `json:"longitude"`
	Latitude        *float64        `json:"latitude"`
	IsActive        *bool           `json:"isActive"`
}

// ToPatch converts the request.
func (r UpdateGarageProfileRequest) ToPatch() domain.GaragePatch {
	return domain.GaragePatch{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Phone:           r.Phone,
		GarageName:      r.GarageName,
		BusinessLicense: r.BusinessLicense,
		Address:         r.Address.ToDomain(),
		Location:        ResolveLocation(r.Location, r.Longitude, r.Latitude),
		IsActive:        r.IsActive,
	}
}

// ServiceRequest payload. Name is optional.
type ServiceRequest struct {
	Name          string   `json:"name"          validate:"max=200"`
	Description   string   `json:"description"   validate:"max=2000"`
	EstimatedTime string   `json:"estimatedTime" validate:"max=100"`
	BasePrice     *float64 `json:"basePrice"     validate:"omitempty,gte=0"`
}

// ToDomain converts the request.
func (r ServiceRequest) ToDomain() domain.Service {
	return domain.Service{Name: r.Name, Description: r.Description, EstimatedTime: r.EstimatedTime, BasePrice: r.BasePrice}
}

// DayHoursRequest is one weekday. Missing isOpen falls back to the weekday default.
type DayHoursRequest struct {
	Open   string `json:"open"  validate:"omitempty,datetime=15:04"`
	Close  string `json:"close" validate:"omitempty,datetime=15:04"`
	IsOpen *bool  `json:"isOpen"`
}

// OperatingHoursRequest replaces the whole schedule; omitted days take their defaults.
type OperatingHoursRequest struct {
	Monday    *DayHoursRequest `json:"monday"`
	Tuesday   *DayHoursRequest `json:"tuesday"`
	Wednesday *DayHoursRequest `json:"wednesday"`
	Thursday  *DayHoursRequest `json:"thursday"`
	Friday    *DayHoursRequest `json:"friday"`
	Saturday  *DayHoursRequest `json:"saturday"`
	Sunday    *DayHoursRequest `json:"sunday"`
}

// ToDomain converts the request, defaulting each day independently.
func (r OperatingHoursRequest) ToDomain() domain.OperatingHours {
	days := map[string]*DayHoursRequest{
		"monday":    r.Monday,
		"tuesday":   r.Tuesday,
		"wednesday": r.Wednesday,
		"thursday":  r.Thursday,
		"friday":    r.Friday,
		"saturday":  r.Saturday,
		"sunday":    r.Sunday,
	}

	hours := domain.DefaultOperatingHours()
	for _, name := range domain.Weekdays {
		in := days[name]
		if in == nil {
			continue
		}
		day := hours.Day(name)
		day.Open = in.Open
		day.Close = in.Close
		if in.IsOpen != nil {
			day.IsOpen = *in.IsOpen
		}
	}
	return hours
}

// SpecialtiesRequest keeps the raw value so a non-list can be rejected.
type SpecialtiesRequest struct {
	Specialties json.RawMessage `json:"specialties"`
}

// List decodes the specialties as a list of strings.
func (r SpecialtiesRequest) List() ([]string, error) {
	invalid := apperrors.NewValidationError("please provide an array of specialties",
		map[string]any{"specialties": "must be a list of strings"})

	var list []string
	if len(r.Specialties) == 0 || r.Specialties[0] != '[' {
		return nil, invalid
	}
	if err := json.Unmarshal(r.Specialties, &list); err != nil {
		return nil, invalid
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// GarageResponse is the caller's full garage profile. Reviews are served separately.
type GarageResponse struct {
	AccountResponse
	Phone           string                `json:"phone"`
	GarageName      string                `json:"garageName"`
	BusinessLicense string                `json:"businessLicense"`
	Address         domain.Address        `json:"address"`
	Location        *GeoJSONPoint         `json:"location,omitempty"`
	OperatingHours  domain.OperatingHours `json:"operatingHours"`
	Services        []domain.Service      `json:"services"`
	Specialties     []string              `json:"specialties"`
	Ratings         domain.Ratings        `json:"ratings"`
	IsVerified      bool                  `json:"isVerified"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// NewGarageResponse projects a garage without its credential.
func NewGarageResponse(g *domain.Garage) GarageResponse {
	return GarageResponse{
		AccountResponse: NewAccountResponse(g.Account),
		Phone:           g.Phone,
		GarageName:      g.GarageName,
		BusinessLicense: g.BusinessLicense,
		Address:         g.Address,
		Location:        NewGeoJSONPoint(g.Location),
		OperatingHours:  g.OperatingHours,
		Services:        g.Services,
		Specialties:     g.Specialties,
		Ratings:         g.Ratings,
		IsVerified:      g.IsVerified,
		IsActive:        g.IsActive,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

// ReviewAuthor is the display-only view of a reviewing customer.
type ReviewAuthor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ReviewResponse is one review with its author resolved.
type ReviewResponse struct {
	ID        string       `json:"id"`
	Customer  ReviewAuthor `json:"customer"`
	Rating    int          `json:"rating"`
	Comment   string       `json:"comment,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewReviewResponses projects reviews.
func NewReviewResponses(items []domain.ReviewWithAuthor) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(items))
	for _, r := range items {
		out = append(out, ReviewResponse{
			ID: r.ID,
			Customer: ReviewAuthor{
				ID:        r.CustomerID,
				FirstName: r.CustomerFirstName,
				LastName:  r.CustomerLastName,
			},
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
