package domain

import (
	"strings"
	"time"
)

// Role tags which account variant a record is. It is fixed at registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleGarage   Role = "garage"
)

// ParseRole accepts the wire form of a role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleGarage:
		return RoleGarage, true
	}
	return "", false
}

// Account is the identity root shared by both variants.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName joins first and last name.
func (a Account) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail is applied before every store write or lookup by email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Address is a postal address. Garages require every subfield; customers none.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

const (
	defaultCustomerCountry = "UAE"
	defaultGarageCountry   = "USA"
)

// Complete reports whether every subfield is set.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}
