package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/garage-service/internal/api/dto"
	"github.com/spec-kit/garage-service/internal/service"
)

// AuthHandler serves registration, login and the caller's own profile.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /api/auth/register/:userType.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	session, err := h.service.Register(c.UserContext(), c.Params("userType"), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Address:         req.Address.ToDomain(),
		GarageName:      req.GarageName,
		BusinessLicense: req.BusinessLicense,
		Location:        dto.ResolveLocation(req.Location, req.Longitude, req.Latitude),
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, authResponse(session))
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	session, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, authResponse(session))
}

// Me GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	profile, err := h.service.Me(c.UserContext(), p.AccountID, p.Role)
	if err != nil {
		return err
	}
	if profile.Garage != nil {
		return data(c, fiber.StatusOK, dto.NewGarageResponse(profile.Garage))
	}
	return data(c, fiber.StatusOK, dto.NewCustomerResponse(profile.Customer))
}

func authResponse(s *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      dto.NewAccountResponse(s.Account),
	}
}
