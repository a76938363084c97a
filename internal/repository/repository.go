package repository

import (
	"context"

	"github.com/spec-kit/garage-service/internal/domain"
)

// AccountRepository covers the identity root shared by both variants.
// Email uniqueness is enforced by the store across customers and garages.
type AccountRepository interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	CreateGarage(ctx context.Context, garage *domain.Garage) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// CustomerRepository persists customer-variant state.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	UpdateProfile(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error)
	AppendVehicle(ctx context.Context, id string, vehicle *domain.Vehicle) error
	// AddPreferredGarage appends garageID and returns the full preferred list.
	// A repeat returns a ConflictError on FieldPreferredGarage.
	AddPreferredGarage(ctx context.Context, customerID, garageID string) ([]string, error)
}

// GarageRepository persists garage-variant state and answers proximity queries.
type GarageRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Garage, error)
	UpdateProfile(ctx context.Context, id string, patch domain.GaragePatch) (*domain.Garage, error)
	AppendService(ctx context.Context, id string, service *domain.Service) error
	ReplaceOperatingHours(ctx context.Context, id string, hours domain.OperatingHours) error
	ReplaceSpecialties(ctx context.Context, id string, specialties []string) error
	// FindNearby returns verified, active garages within the radius, nearest first.
	FindNearby(ctx context.Context, query domain.NearbyQuery) ([]domain.NearbyGarage, error)
}

// ReviewScope is the serialized view of one garage handed to a ReviewTxFn.
// Nothing else can admit a review for the same garage until the function returns.
type ReviewScope interface {
	Ratings() domain.Ratings
	HasReviewFrom(ctx context.Context, customerID string) (bool, error)
	// Append stores review and replaces the summary with next, atomically.
	Append(ctx context.Context, review *domain.Review, next domain.Ratings) error
}

// ReviewTxFn runs inside the per-garage serialized scope. Returning an error discards its writes.
type ReviewTxFn func(ctx context.Context, scope ReviewScope) error

// ReviewRepository admits and lists reviews.
type ReviewRepository interface {
	WithGarageLocked(ctx context.Context, garageID string, fn ReviewTxFn) error
	ListByGarage(ctx context.Context, garageID string) (domain.Ratings, []domain.ReviewWithAuthor, error)
}
