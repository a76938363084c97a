package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/garage-service/internal/auth"
	"github.com/spec-kit/garage-service/internal/config"
	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/events"
	"github.com/spec-kit/garage-service/internal/repository"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// MinPasswordLength is enforced at registration.
const MinPasswordLength = 6

// AuthService coordinates registration, login and session introspection.
type AuthService struct {
	accounts   repository.AccountRepository
	customers  repository.CustomerRepository
	garages    repository.GarageRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo  repository.AccountRepository
	CustomerRepo repository.CustomerRepository
	GarageRepo   repository.GarageRepository
	Tokens       *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		customers:  deps.CustomerRepo,
		garages:    deps.GarageRepo,
		tokenMgr:   deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput carries the registration payload. Garage-only fields are
// ignored for customers.
type RegisterInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Phone           string
	Address         *domain.Address
	GarageName      string
	BusinessLicense string
	Location        *domain.GeoPoint
}

// Session is a signed token plus the public projection of its account.
type Session struct {
	Account   domain.Account
	Token     string
	ExpiresAt time.Time
}

// Profile is the caller's full variant; exactly one field is set.
type Profile struct {
	Customer *domain.Customer
	Garage   *domain.Garage
}

// Register creates a customer or garage account and signs a session for it.
func (s *AuthService) Register(ctx context.Context, userType string, in RegisterInput) (*Session, error) {
	role, ok := domain.ParseRole(userType)
	if !ok {
		return nil, apperrors.NewValidationError("invalid user type, must be customer or garage",
			map[string]any{"userType": userType})
	}

	base := domain.Account{
		Email:     domain.NormalizeEmail(in.Email),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     strings.TrimSpace(in.Phone),
	}
	if err := validateRegistration(role, base.Email, in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	base.PasswordHash = hash

	var account domain.Account
	switch role {
	case domain.RoleCustomer:
		customer := domain.NewCustomer(base, in.Address)
		if err := s.accounts.CreateCustomer(ctx, customer); err != nil {
			return nil, mapRepoError(err, "account")
		}
		account = customer.Account
	case domain.RoleGarage:
		var address domain.Address
		if in.Address != nil {
			address = *in.Address
		}
		garage := domain.NewGarage(base, strings.TrimSpace(in.GarageName), strings.TrimSpace(in.BusinessLicense), address)
		garage.Location = in.Location
		if err := s.accounts.CreateGarage(ctx, garage); err != nil {
			return nil, mapRepoError(err, "account")
		}
		account = garage.Account
	}

	session, err := s.issue(account)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("account_id", account.ID), zap.String("role", string(account.Role)))
	s.publish(ctx, events.New(events.EventAccountRegistered,
		events.Actor{AccountID: account.ID, Role: account.Role}, "",
		events.AccountRegisteredPayload{Email: account.Email}))
	return session, nil
}

func validateRegistration(role domain.Role, email string, in RegisterInput) error {
	details := map[string]any{}
	if email == "" {
		details["email"] = "is required"
	}
	if len(in.Password) < MinPasswordLength {
		details["password"] = "must be at least 6 characters"
	}
	if role == domain.RoleGarage {
		if strings.TrimSpace(in.GarageName) == "" {
			details["garageName"] = "is required"
		}
		if strings.TrimSpace(in.BusinessLicense) == "" {
			details["businessLicense"] = "is required"
		}
		if !garageAddressComplete(in.Address) {
			details["address"] = "street, city, state and zipCode are required"
		}
		if in.Location != nil && !in.Location.Valid() {
			details["location"] = "coordinates out of range"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

// garageAddressComplete checks every subfield; country is defaulted when absent.
func garageAddressComplete(a *domain.Address) bool {
	if a == nil {
		return false
	}
	addr := *a
	if addr.Country == "" {
		addr.Country = "-"
	}
	return addr.Complete()
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error and comparable latency.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("please provide an email and password", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CompareDummy(password, s.bcryptCost)
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, mapRepoError(err, "account")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	return s.issue(*account)
}

// Me loads the caller's variant profile.
func (s *AuthService) Me(ctx context.Context, accountID string, role domain.Role) (*Profile, error) {
	switch role {
	case domain.RoleCustomer:
		customer, err := s.customers.GetByID(ctx, accountID)
		if err != nil {
			return nil, mapRepoError(err, "customer")
		}
		return &Profile{Customer: customer}, nil
	case domain.RoleGarage:
		garage, err := s.garages.GetByID(ctx, accountID)
		if err != nil {
			return nil, mapRepoError(err, "garage")
		}
		return &Profile{Garage: garage}, nil
	}
	return nil, apperrors.NewForbidden("unknown account type")
}

func (s *AuthService) issue(account domain.Account) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	account.PasswordHash = ""
	return &Session{Account: account, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
