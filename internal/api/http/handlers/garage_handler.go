package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-service/internal/api/dto"
	"github.com/spec-kit/garage-service/internal/service"
)

// GarageHandler serves garage-only endpoints. Every operation acts on the caller's own garage.
type GarageHandler struct {
	profiles *service.ProfileService
	ratings  *service.RatingService
}

// NewGarageHandler constructs handler.
func NewGarageHandler(profiles *service.ProfileService, ratings *service.RatingService) *GarageHandler {
	return &GarageHandler{profiles: profiles, ratings: ratings}
}

// UpdateProfile PUT /api/garages/profile.
func (h *GarageHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateGarageProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	garage, err := h.profiles.UpdateGarageProfile(c.UserContext(), p.AccountID, req.ToPatch())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewGarageResponse(garage))
}

// AddService POST /api/garages/services.
func (h *GarageHandler) AddService(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ServiceRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	svc, err := h.profiles.AddService(c.UserContext(), p.AccountID, req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, svc)
}

// ListServices GET /api/garages/services.
func (h *GarageHandler) ListServices(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	services, err := h.profiles.ListServices(c.UserContext(), p.AccountID)
	if err != nil {
		return err
	}
	return list(c, services, len(services))
}

// UpdateHours PUT /api/garages/hours.
func (h *GarageHandler) UpdateHours(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.OperatingHoursRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	hours, err := h.profiles.UpdateOperatingHours(c.UserContext(), p.AccountID, req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, hours)
}

// UpdateSpecialties PUT /api/garages/specialties.
func (h *GarageHandler) UpdateSpecialties(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.SpecialtiesRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	specialties, err := req.List()
	if err != nil {
		return err
	}
	updated, err := h.profiles.UpdateSpecialties(c.UserContext(), p.AccountID, specialties)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, updated)
}

// Reviews GET /api/garages/reviews.
func (h *GarageHandler) Reviews(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	result, err := h.ratings.ListReviews(c.UserContext(), p.AccountID)
	if err != nil {
		return err
	}
	return reviewList(c, result)
}
