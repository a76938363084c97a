package domain

import "time"

// ServiceStatus tracks a service-history entry.
type ServiceStatus string

const (
	ServiceStatusScheduled  ServiceStatus = "scheduled"
	ServiceStatusInProgress ServiceStatus = "in-progress"
	ServiceStatusCompleted  ServiceStatus = "completed"
	ServiceStatusCancelled  ServiceStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceStatusScheduled, ServiceStatusInProgress, ServiceStatusCompleted, ServiceStatusCancelled:
		return true
	}
	return false
}

// Vehicle is owned by a customer. All fields are optional.
type Vehicle struct {
	ID           string `json:"id"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         *int   `json:"year,omitempty"`
	LicensePlate string `json:"licensePlate,omitempty"`
	VIN          string `json:"vin,omitempty"`
}

// ServiceRecord is one entry of a customer's service history.
type ServiceRecord struct {
	GarageID    string        `json:"garageId,omitempty"`
	ServiceDate *time.Time    `json:"serviceDate,omitempty"`
	ServiceType string        `json:"serviceType,omitempty"`
	Description string        `json:"description,omitempty"`
	Cost        *float64      `json:"cost,omitempty"`
	Status      ServiceStatus `json:"status"`
}

// Customer is the customer variant of Account.
type Customer struct {
	Account
	Address          *Address
	Vehicles         []Vehicle
	PreferredGarages []string
	ServiceHistory   []ServiceRecord
}

// NewCustomer builds a customer variant; the role is fixed here and nowhere else.
func NewCustomer(base Account, address *Address) *Customer {
	base.Role = RoleCustomer
	if address != nil && address.Country == "" {
		addr := *address
		addr.Country = defaultCustomerCountry
		address = &addr
	}
	return &Customer{
		Account:          base,
		Address:          address,
		Vehicles:         []Vehicle{},
		PreferredGarages: []string{},
		ServiceHistory:   []ServiceRecord{},
	}
}

// HasPreferred reports whether garageID is already in the preferred set.
func (c *Customer) HasPreferred(garageID string) bool {
	for _, id := range c.PreferredGarages {
		if id == garageID {
			return true
		}
	}
	return false
}

// CustomerPatch is a partial profile update. Nil fields are left untouched.
// Role and password are not representable here.
type CustomerPatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *Address
}

// Empty reports whether the patch changes nothing.
func (p CustomerPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil && p.Address == nil
}

// Apply mutates c in place.
func (p CustomerPatch) Apply(c *Customer) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		addr := *p.Address
		if addr.Country == "" {
			addr.Country = defaultCustomerCountry
		}
		c.Address = &addr
	}
}
