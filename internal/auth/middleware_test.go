package auth

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/repository/memory"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

type fixture struct {
	app      *fiber.App
	tokens   *TokenManager
	customer *domain.Customer
	garage   *domain.Garage
}

func errorCodeHandler(c *fiber.Ctx, err error) error {
	de := apperrors.ToDomainError(err)
	return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	customer := domain.NewCustomer(domain.Account{Email: "c@x.com"}, nil)
	require.NoError(t, store.Accounts().CreateCustomer(ctx, customer))
	garage := domain.NewGarage(domain.Account{Email: "g@x.com"}, "G", "L-1", domain.Address{})
	require.NoError(t, store.Accounts().CreateGarage(ctx, garage))

	tokens := NewTokenManager("secret", "garage-service", time.Hour)
	mw := NewAuthMiddleware(tokens, store.Accounts())

	app := fiber.New(fiber.Config{ErrorHandler: errorCodeHandler})
	whoami := func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"id": p.AccountID, "role": p.Role})
	}
	app.Get("/me", mw.Handle, whoami)
	app.Get("/customer-only", mw.Handle, RequireCustomer(), whoami)
	app.Get("/garage-only", mw.Handle, RequireGarage(), whoami)

	return &fixture{app: app, tokens: tokens, customer: customer, garage: garage}
}

func (f *fixture) do(t *testing.T, path, authorization string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (f *fixture) bearer(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	token, _, err := f.tokens.GenerateToken(id, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"empty token":    "Bearer ",
		"garbage token":  "Bearer abc.def.ghi",
		"unknown id":     f.bearer(t, "6f1c7c9e-6d8b-4e0a-9d5b-2b7f8f1f0c11", domain.RoleCustomer),
		"non uuid id":    f.bearer(t, "acc-1", domain.RoleCustomer),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := f.do(t, "/me", header)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, apperrors.CodeUnauthenticated, body["code"])
		})
	}
}

func TestAuthMiddleware_RoleComesFromStorage(t *testing.T) {
	f := newFixture(t)

	// A token claiming the garage role for a customer account is still a customer.
	status, body := f.do(t, "/me", f.bearer(t, f.customer.ID, domain.RoleGarage))
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, string(domain.RoleCustomer), body["role"])

	status, body = f.do(t, "/garage-only", f.bearer(t, f.customer.ID, domain.RoleGarage))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, body["code"])
}

func TestRequireRole(t *testing.T) {
	f := newFixture(t)
	customer := f.bearer(t, f.customer.ID, domain.RoleCustomer)
	garage := f.bearer(t, f.garage.ID, domain.RoleGarage)

	tests := []struct {
		path   string
		auth   string
		status int
	}{
		{"/customer-only", customer, fiber.StatusOK},
		{"/customer-only", garage, fiber.StatusForbidden},
		{"/garage-only", garage, fiber.StatusOK},
		{"/garage-only", customer, fiber.StatusForbidden},
	}
	for _, tt := range tests {
		status, _ := f.do(t, tt.path, tt.auth)
		assert.Equal(t, tt.status, status, tt.path)
	}
}
