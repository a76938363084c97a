// Package memory is a process-local store used when no Postgres DSN is configured
// and as the backing store in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/repository"
)

// Store satisfies every repository interface against maps guarded by one RWMutex.
// Review admission additionally holds a per-garage lock for the whole callback.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]*domain.Account
	byEmail   map[string]string
	customers map[string]*domain.Customer
	garages   map[string]*domain.Garage
	licenses  map[string]string

	locksMu     sync.Mutex
	garageLocks map[string]*sync.Mutex

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts:    map[string]*domain.Account{},
		byEmail:     map[string]string{},
		customers:   map[string]*domain.Customer{},
		garages:     map[string]*domain.Garage{},
		licenses:    map[string]string{},
		garageLocks: map[string]*sync.Mutex{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Accounts returns the store as an AccountRepository.
func (s *Store) Accounts() repository.AccountRepository { return accountStore{s} }

// Customers returns the store as a CustomerRepository.
func (s *Store) Customers() repository.CustomerRepository { return customerStore{s} }

// Garages returns the store as a GarageRepository.
func (s *Store) Garages() repository.GarageRepository { return garageStore{s} }

// Reviews returns the store as a ReviewRepository.
func (s *Store) Reviews() repository.ReviewRepository { return reviewStore{s} }

// SetVerified flips the verification flag. It has no HTTP surface.
func (s *Store) SetVerified(ctx context.Context, garageID string, verified bool) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.garages[garageID]
	if !ok {
		return repository.ErrNotFound
	}
	g.IsVerified = verified
	g.UpdatedAt = s.now()
	return nil
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", repository.ErrStorageUnavailable, err)
}

// createAccount reserves the email and stores a copy of the account.
// Caller holds s.mu.
func (s *Store) createAccount(account *domain.Account) error {
	if _, taken := s.byEmail[account.Email]; taken {
		return &repository.ConflictError{Field: repository.FieldEmail}
	}
	now := s.now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	s.accounts[account.ID] = &stored
	s.byEmail[account.Email] = account.ID
	return nil
}

// touch copies shared fields from the variant back into the account index.
// Caller holds s.mu.
func (s *Store) touch(account *domain.Account) {
	account.UpdatedAt = s.now()
	stored := *account
	s.accounts[account.ID] = &stored
}

// garageLock returns the per-garage review lock. Unknown ids get no entry.
func (s *Store) garageLock(id string) (*sync.Mutex, bool) {
	s.mu.RLock()
	_, exists := s.garages[id]
	s.mu.RUnlock()
	if !exists {
		return nil, false
	}

	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.garageLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.garageLocks[id] = l
	}
	return l, true
}

type accountStore struct{ s *Store }

func (a accountStore) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.createAccount(&customer.Account); err != nil {
		return err
	}
	s.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func (a accountStore) CreateGarage(ctx context.Context, garage *domain.Garage) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	// Email conflicts win over license conflicts.
	if _, taken := s.byEmail[garage.Email]; taken {
		return &repository.ConflictError{Field: repository.FieldEmail}
	}
	if _, taken := s.licenses[garage.BusinessLicense]; taken {
		return &repository.ConflictError{Field: repository.FieldBusinessLicense}
	}
	if err := s.createAccount(&garage.Account); err != nil {
		return err
	}
	s.licenses[garage.BusinessLicense] = garage.ID
	s.garages[garage.ID] = cloneGarage(garage)
	return nil
}

func (a accountStore) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	account, ok := a.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *account
	return &out, nil
}

func (a accountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	a.s.mu.RLock()
	id, ok := a.s.byEmail[email]
	a.s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a.GetByID(ctx, id)
}

type customerStore struct{ s *Store }

func (c customerStore) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	customer, ok := c.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCustomer(customer), nil
}

func (c customerStore) UpdateProfile(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	customer, ok := c.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(customer)
	c.s.touch(&customer.Account)
	return cloneCustomer(customer), nil
}

func (c customerStore) AppendVehicle(ctx context.Context, id string, vehicle *domain.Vehicle) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	customer, ok := c.s.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	v := *vehicle
	v.Year = cloneInt(vehicle.Year)
	customer.Vehicles = append(customer.Vehicles, v)
	c.s.touch(&customer.Account)
	return nil
}

func (c customerStore) AddPreferredGarage(ctx context.Context, customerID, garageID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	customer, ok := c.s.customers[customerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := c.s.garages[garageID]; !ok {
		return nil, repository.ErrNotFound
	}
	if customer.HasPreferred(garageID) {
		return nil, &repository.ConflictError{Field: repository.FieldPreferredGarage}
	}
	customer.PreferredGarages = append(customer.PreferredGarages, garageID)
	c.s.touch(&customer.Account)
	return append([]string{}, customer.PreferredGarages...), nil
}

type garageStore struct{ s *Store }

func (g garageStore) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()

	garage, ok := g.s.garages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneGarage(garage), nil
}

func (g garageStore) UpdateProfile(ctx context.Context, id string, patch domain.GaragePatch) (*domain.Garage, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	s := g.s
	s.mu.Lock()
	defer s.mu.Unlock()

	garage, ok := s.garages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.BusinessLicense != nil && *patch.BusinessLicense != garage.BusinessLicense {
		if owner, taken := s.licenses[*patch.BusinessLicense]; taken && owner != id {
			return nil, &repository.ConflictError{Field: repository.FieldBusinessLicense}
		}
		delete(s.licenses, garage.BusinessLicense)
		s.licenses[*patch.BusinessLicense] = id
	}
	patch.Apply(garage)
	s.touch(&garage.Account)
	return cloneGarage(garage), nil
}

func (g garageStore) AppendService(ctx context.Context, id string, service *domain.Service) error {
	return g.mutate(ctx, id, func(garage *domain.Garage) {
		svc := *service
		svc.BasePrice = cloneFloat(service.BasePrice)
		garage.Services = append(garage.Services, svc)
	})
}

func (g garageStore) ReplaceOperatingHours(ctx context.Context, id string, hours domain.OperatingHours) error {
	return g.mutate(ctx, id, func(garage *domain.Garage) {
		garage.OperatingHours = hours
	})
}

func (g garageStore) ReplaceSpecialties(ctx context.Context, id string, specialties []string) error {
	return g.mutate(ctx, id, func(garage *domain.Garage) {
		garage.Specialties = append([]string{}, specialties...)
	})
}

func (g garageStore) mutate(ctx context.Context, id string, fn func(*domain.Garage)) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	g.s.mu.Lock()
	defer g.s.mu.Unlock()

	garage, ok := g.s.garages[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(garage)
	g.s.touch(&garage.Account)
	return nil
}

func (g garageStore) FindNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyGarage, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageErr(err)
	}
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()

	result := []domain.NearbyGarage{}
	for _, garage := range g.s.garages {
		if !garage.Discoverable() {
			continue
		}
		distance := domain.DistanceMeters(q.Point, *garage.Location)
		if distance > q.MaxDistanceMeters {
			continue
		}
		result = append(result, cloneGarage(garage).Summary(distance))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DistanceMeters != result[j].DistanceMeters {
			return result[i].DistanceMeters < result[j].DistanceMeters
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

type reviewStore struct{ s *Store }

func (r reviewStore) WithGarageLocked(ctx context.Context, garageID string, fn repository.ReviewTxFn) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	lock, ok := r.s.garageLock(garageID)
	if !ok {
		return repository.ErrNotFound
	}
	lock.Lock()
	defer lock.Unlock()

	r.s.mu.RLock()
	garage, ok := r.s.garages[garageID]
	var ratings domain.Ratings
	if ok {
		ratings = garage.Ratings
	}
	r.s.mu.RUnlock()
	if !ok {
		return repository.ErrNotFound
	}

	return fn(ctx, &memReviewScope{s: r.s, garageID: garageID, ratings: ratings})
}

func (r reviewStore) ListByGarage(ctx context.Context, garageID string) (domain.Ratings, []domain.ReviewWithAuthor, error) {
	if err := ctx.Err(); err != nil {
		return domain.Ratings{}, nil, storageErr(err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	garage, ok := r.s.garages[garageID]
	if !ok {
		return domain.Ratings{}, nil, repository.ErrNotFound
	}
	reviews := make([]domain.ReviewWithAuthor, 0, len(garage.Reviews))
	for _, rv := range garage.Reviews {
		item := domain.ReviewWithAuthor{Review: rv}
		if author, ok := r.s.accounts[rv.CustomerID]; ok {
			item.CustomerFirstName = author.FirstName
			item.CustomerLastName = author.LastName
		}
		reviews = append(reviews, item)
	}
	return garage.Ratings, reviews, nil
}

type memReviewScope struct {
	s        *Store
	garageID string
	ratings  domain.Ratings
}

func (m *memReviewScope) Ratings() domain.Ratings {
	return m.ratings
}

func (m *memReviewScope) HasReviewFrom(ctx context.Context, customerID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storageErr(err)
	}
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	garage, ok := m.s.garages[m.garageID]
	if !ok {
		return false, repository.ErrNotFound
	}
	return garage.HasReviewFrom(customerID), nil
}

func (m *memReviewScope) Append(ctx context.Context, review *domain.Review, next domain.Ratings) error {
	if err := ctx.Err(); err != nil {
		return storageErr(err)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	garage, ok := m.s.garages[m.garageID]
	if !ok {
		return repository.ErrNotFound
	}
	if garage.HasReviewFrom(review.CustomerID) {
		return &repository.ConflictError{Field: repository.FieldReview}
	}
	if garage.Ratings != m.ratings {
		return repository.ErrConcurrentUpdate
	}
	review.ID = uuid.NewString()
	garage.Reviews = append(garage.Reviews, *review)
	garage.Ratings = next
	m.s.touch(&garage.Account)
	m.ratings = next
	return nil
}
