package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/events"
	"github.com/spec-kit/garage-service/internal/repository"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// ProfileService manages per-role mutable state: profiles, vehicles,
// preferred garages, service catalogs, hours and specialties.
type ProfileService struct {
	customers  repository.CustomerRepository
	garages    repository.GarageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProfileDependencies bundles repositories for the profile service.
type ProfileDependencies struct {
	CustomerRepo repository.CustomerRepository
	GarageRepo   repository.GarageRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewProfileService builds the service.
func NewProfileService(deps ProfileDependencies) *ProfileService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		customers:  deps.CustomerRepo,
		garages:    deps.GarageRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// UpdateCustomerProfile applies a partial update to the caller's customer record.
func (s *ProfileService) UpdateCustomerProfile(ctx context.Context, customerID string, patch domain.CustomerPatch) (*domain.Customer, error) {
	customer, err := s.customers.UpdateProfile(ctx, customerID, patch)
	if err != nil {
		return nil, mapRepoError(err, "customer")
	}
	return customer, nil
}

// UpdateGarageProfile applies a partial update to the caller's garage record.
// Required garage fields may be changed but not cleared.
func (s *ProfileService) UpdateGarageProfile(ctx context.Context, garageID string, patch domain.GaragePatch) (*domain.Garage, error) {
	details := map[string]any{}
	if patch.GarageName != nil && strings.TrimSpace(*patch.GarageName) == "" {
		details["garageName"] = "cannot be empty"
	}
	if patch.BusinessLicense != nil && strings.TrimSpace(*patch.BusinessLicense) == "" {
		details["businessLicense"] = "cannot be empty"
	}
	if patch.Address != nil && !garageAddressComplete(patch.Address) {
		details["address"] = "street, city, state and zipCode are required"
	}
	if patch.Location != nil && !patch.Location.Valid() {
		details["location"] = "coordinates out of range"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid garage profile", details)
	}

	garage, err := s.garages.UpdateProfile(ctx, garageID, patch)
	if err != nil {
		return nil, mapRepoError(err, "garage")
	}
	s.garageChanged(ctx, garageID, events.ChangeProfile)
	return garage, nil
}

// AddVehicle appends a vehicle to the customer and returns it with its id.
func (s *ProfileService) AddVehicle(ctx context.Context, customerID string, vehicle domain.Vehicle) (*domain.Vehicle, error) {
	vehicle.ID = uuid.NewString()
	if err := s.customers.AppendVehicle(ctx, customerID, &vehicle); err != nil {
		return nil, mapRepoError(err, "customer")
	}
	return &vehicle, nil
}

// ListVehicles returns the customer's vehicles in insertion order.
func (s *ProfileService) ListVehicles(ctx context.Context, customerID string) ([]domain.Vehicle, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, mapRepoError(err, "customer")
	}
	return customer.Vehicles, nil
}

// AddService appends a catalog entry. An empty name is accepted.
func (s *ProfileService) AddService(ctx context.Context, garageID string, svc domain.Service) (*domain.Service, error) {
	svc.ID = uuid.NewString()
	if err := s.garages.AppendService(ctx, garageID, &svc); err != nil {
		return nil, mapRepoError(err, "garage")
	}
	s.garageChanged(ctx, garageID, events.ChangeServices)
	return &svc, nil
}

// ListServices returns the garage's catalog in insertion order.
func (s *ProfileService) ListServices(ctx context.Context, garageID string) ([]domain.Service, error) {
	garage, err := s.garages.GetByID(ctx, garageID)
	if err != nil {
		return nil, mapRepoError(err, "garage")
	}
	return garage.Services, nil
}

// UpdateOperatingHours replaces the whole seven-day schedule.
func (s *ProfileService) UpdateOperatingHours(ctx context.Context, garageID string, hours domain.OperatingHours) (domain.OperatingHours, error) {
	if err := s.garages.ReplaceOperatingHours(ctx, garageID, hours); err != nil {
		return domain.OperatingHours{}, mapRepoError(err, "garage")
	}
	s.garageChanged(ctx, garageID, events.ChangeHours)
	return hours, nil
}

// UpdateSpecialties replaces the specialty tags. A nil slice means the caller
// did not send a list and is rejected without touching storage.
func (s *ProfileService) UpdateSpecialties(ctx context.Context, garageID string, specialties []string) ([]string, error) {
	if specialties == nil {
		return nil, apperrors.NewValidationError("please provide an array of specialties",
			map[string]any{"specialties": "must be a list"})
	}
	if err := s.garages.ReplaceSpecialties(ctx, garageID, specialties); err != nil {
		return nil, mapRepoError(err, "garage")
	}
	s.garageChanged(ctx, garageID, events.ChangeSpecialties)
	return specialties, nil
}

// AddPreferredGarage adds garageID to the customer's preferred set.
func (s *ProfileService) AddPreferredGarage(ctx context.Context, customerID, garageID string) ([]string, error) {
	if err := requireID(garageID, "garageId"); err != nil {
		return nil, err
	}
	if _, err := s.garages.GetByID(ctx, garageID); err != nil {
		return nil, mapRepoError(err, "garage")
	}

	preferred, err := s.customers.AddPreferredGarage(ctx, customerID, garageID)
	if err != nil {
		// The garage was confirmed above, so a missing row here is the customer.
		if repository.IsConflict(err, repository.FieldPreferredGarage) {
			return nil, mapRepoError(err, "garage")
		}
		return nil, mapRepoError(err, "customer")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventPreferredGarageAdded,
			events.Actor{AccountID: customerID, Role: domain.RoleCustomer}, garageID,
			events.PreferredGarageAddedPayload{PreferredCount: len(preferred)}))
	}
	return preferred, nil
}

func (s *ProfileService) garageChanged(ctx context.Context, garageID, change string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.New(events.EventGarageUpdated,
		events.Actor{AccountID: garageID, Role: domain.RoleGarage}, garageID,
		events.GarageUpdatedPayload{Change: change}))
}
