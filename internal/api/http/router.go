package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/garage-service/internal/api/http/handlers"
	"github.com/spec-kit/garage-service/internal/auth"
	"github.com/spec-kit/garage-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomerHandler
	Garages        *handlers.GarageHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register/:userType", cfg.RateLimiter.Handle, cfg.Auth.Register)
	authGroup.Post("/login", cfg.RateLimiter.Handle, cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	customers := api.Group("/customers", cfg.AuthMiddleware.Handle, auth.RequireCustomer())
	customers.Put("/profile", cfg.Customers.UpdateProfile)
	customers.Post("/vehicles", cfg.Customers.AddVehicle)
	customers.Get("/vehicles", cfg.Customers.ListVehicles)
	customers.Get("/garages/nearby", cfg.Customers.Nearby)
	customers.Get("/garages/:garageId/reviews", cfg.Customers.GarageReviews)
	customers.Post("/preferred-garages/:garageId", cfg.Customers.AddPreferredGarage)
	customers.Post("/reviews/:garageId", cfg.Customers.SubmitReview)

	garages := api.Group("/garages", cfg.AuthMiddleware.Handle, auth.RequireGarage())
	garages.Put("/profile", cfg.Garages.UpdateProfile)
	garages.Post("/services", cfg.Garages.AddService)
	garages.Get("/services", cfg.Garages.ListServices)
	garages.Put("/hours", cfg.Garages.UpdateHours)
	garages.Put("/specialties", cfg.Garages.UpdateSpecialties)
	garages.Get("/reviews", cfg.Garages.Reviews)
}
