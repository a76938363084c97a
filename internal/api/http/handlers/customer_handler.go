package handlers

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-service/internal/api/dto"
	"github.com/spec-kit/garage-service/internal/service"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// CustomerHandler serves customer-only endpoints.
type CustomerHandler struct {
	profiles  *service.ProfileService
	discovery *service.DiscoveryService
	ratings   *service.RatingService
}

// NewCustomerHandler constructs handler.
func NewCustomerHandler(profiles *service.ProfileService, discovery *service.DiscoveryService, ratings *service.RatingService) *CustomerHandler {
	return &CustomerHandler{profiles: profiles, discovery: discovery, ratings: ratings}
}

// UpdateProfile PUT /api/customers/profile.
func (h *CustomerHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCustomerProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	customer, err := h.profiles.UpdateCustomerProfile(c.UserContext(), p.AccountID, req.ToPatch())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewCustomerResponse(customer))
}

// AddVehicle POST /api/customers/vehicles.
func (h *CustomerHandler) AddVehicle(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.VehicleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	vehicle, err := h.profiles.AddVehicle(c.UserContext(), p.AccountID, req.ToDomain())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, vehicle)
}

// ListVehicles GET /api/customers/vehicles.
func (h *CustomerHandler) ListVehicles(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	vehicles, err := h.profiles.ListVehicles(c.UserContext(), p.AccountID)
	if err != nil {
		return err
	}
	return list(c, vehicles, len(vehicles))
}

// Nearby GET /api/customers/garages/nearby.
func (h *CustomerHandler) Nearby(c *fiber.Ctx) error {
	var q dto.NearbyQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}

	in := service.NearbyInput{}
	var err error
	if in.Longitude, err = parseFloatParam("longitude", q.Longitude); err != nil {
		return err
	}
	if in.Latitude, err = parseFloatParam("latitude", q.Latitude); err != nil {
		return err
	}
	if in.MaxDistanceMeters, err = parseFloatParam("maxDistance", q.MaxDistance); err != nil {
		return err
	}

	garages, err := h.discovery.FindNearby(c.UserContext(), in)
	if err != nil {
		return err
	}
	return list(c, dto.NewNearbyGarageResponses(garages), len(garages))
}

// AddPreferredGarage POST /api/customers/preferred-garages/:garageId.
func (h *CustomerHandler) AddPreferredGarage(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	preferred, err := h.profiles.AddPreferredGarage(c.UserContext(), p.AccountID, c.Params("garageId"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{"preferredGarages": preferred})
}

// SubmitReview POST /api/customers/reviews/:garageId.
func (h *CustomerHandler) SubmitReview(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	review, err := h.ratings.SubmitReview(c.UserContext(), p.AccountID, c.Params("garageId"), service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, review)
}

// GarageReviews GET /api/customers/garages/:garageId/reviews.
func (h *CustomerHandler) GarageReviews(c *fiber.Ctx) error {
	result, err := h.ratings.ListReviews(c.UserContext(), c.Params("garageId"))
	if err != nil {
		return err
	}
	return reviewList(c, result)
}

func reviewList(c *fiber.Ctx, result *service.ReviewList) error {
	return c.JSON(fiber.Map{
		"count":   result.Count,
		"ratings": result.Ratings,
		"data":    dto.NewReviewResponses(result.Reviews),
	})
}

func parseFloatParam(name, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperrors.NewValidationError("invalid "+name, map[string]any{name: "must be a number"})
	}
	return &v, nil
}
