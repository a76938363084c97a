package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/repository"
)

func newCustomer(t *testing.T, s *Store, email string) *domain.Customer {
	t.Helper()
	c := domain.NewCustomer(domain.Account{Email: email, FirstName: "Ada", LastName: "Lovelace"}, nil)
	require.NoError(t, s.Accounts().CreateCustomer(context.Background(), c))
	return c
}

func newGarage(t *testing.T, s *Store, email, license string, loc *domain.GeoPoint, verified bool) *domain.Garage {
	t.Helper()
	g := domain.NewGarage(domain.Account{Email: email}, "Garage "+license, license, domain.Address{
		Street: "1 Main", City: "Austin", State: "TX", ZipCode: "73301",
	})
	g.Location = loc
	require.NoError(t, s.Accounts().CreateGarage(context.Background(), g))
	if verified {
		require.NoError(t, s.SetVerified(context.Background(), g.ID, true))
	}
	return g
}

func TestCreate_EmailUniqueAcrossVariants(t *testing.T) {
	s := New()
	c := newCustomer(t, s, "a@x.com")
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	g := domain.NewGarage(domain.Account{Email: "a@x.com"}, "G", "L-1", domain.Address{})
	err := s.Accounts().CreateGarage(context.Background(), g)
	assert.True(t, repository.IsConflict(err, repository.FieldEmail))

	dup := domain.NewCustomer(domain.Account{Email: "a@x.com"}, nil)
	err = s.Accounts().CreateCustomer(context.Background(), dup)
	assert.True(t, repository.IsConflict(err, repository.FieldEmail))
}

func TestCreateGarage_LicenseUnique(t *testing.T) {
	s := New()
	newGarage(t, s, "g1@x.com", "L-1", nil, false)

	g := domain.NewGarage(domain.Account{Email: "g2@x.com"}, "G", "L-1", domain.Address{})
	err := s.Accounts().CreateGarage(context.Background(), g)
	assert.True(t, repository.IsConflict(err, repository.FieldBusinessLicense))

	_, err = s.Accounts().GetByEmail(context.Background(), "g2@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateGarage_EmailConflictReportedBeforeLicense(t *testing.T) {
	s := New()
	newGarage(t, s, "g1@x.com", "L-1", nil, false)

	again := domain.NewGarage(domain.Account{Email: "g1@x.com"}, "G", "L-1", domain.Address{})
	err := s.Accounts().CreateGarage(context.Background(), again)
	assert.True(t, repository.IsConflict(err, repository.FieldEmail))
	assert.False(t, repository.IsConflict(err, repository.FieldBusinessLicense))
}

func TestGet_ReturnsCopies(t *testing.T) {
	s := New()
	g := newGarage(t, s, "g@x.com", "L-1", &domain.GeoPoint{Longitude: 1, Latitude: 1}, false)

	first, err := s.Garages().GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	first.Location.Latitude = 50
	first.Specialties = append(first.Specialties, "brakes")

	second, err := s.Garages().GetByID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, second.Location.Latitude)
	assert.Empty(t, second.Specialties)
}

func TestVariantLookupsDoNotCross(t *testing.T) {
	s := New()
	c := newCustomer(t, s, "c@x.com")
	g := newGarage(t, s, "g@x.com", "L-1", nil, false)

	_, err := s.Garages().GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.Customers().GetByID(context.Background(), g.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAddPreferredGarage(t *testing.T) {
	s := New()
	ctx := context.Background()
	c := newCustomer(t, s, "c@x.com")
	g := newGarage(t, s, "g@x.com", "L-1", nil, false)

	list, err := s.Customers().AddPreferredGarage(ctx, c.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{g.ID}, list)

	_, err = s.Customers().AddPreferredGarage(ctx, c.ID, g.ID)
	assert.True(t, repository.IsConflict(err, repository.FieldPreferredGarage))

	_, err = s.Customers().AddPreferredGarage(ctx, c.ID, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := s.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{g.ID}, stored.PreferredGarages)
}

func TestUpdateProfile_LicenseConflict(t *testing.T) {
	s := New()
	ctx := context.Background()
	newGarage(t, s, "g1@x.com", "L-1", nil, false)
	g2 := newGarage(t, s, "g2@x.com", "L-2", nil, false)

	taken := "L-1"
	_, err := s.Garages().UpdateProfile(ctx, g2.ID, domain.GaragePatch{BusinessLicense: &taken})
	assert.True(t, repository.IsConflict(err, repository.FieldBusinessLicense))

	fresh := "L-3"
	updated, err := s.Garages().UpdateProfile(ctx, g2.ID, domain.GaragePatch{BusinessLicense: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "L-3", updated.BusinessLicense)

	// The released license can be claimed again.
	g3 := domain.NewGarage(domain.Account{Email: "g3@x.com"}, "G3", "L-2", domain.Address{})
	require.NoError(t, s.Accounts().CreateGarage(ctx, g3))
}

func TestFindNearby_FiltersAndOrders(t *testing.T) {
	s := New()
	ctx := context.Background()
	origin := domain.GeoPoint{Longitude: 55.2708, Latitude: 25.2048}

	far := newGarage(t, s, "far@x.com", "L-far", &domain.GeoPoint{Longitude: 55.2708, Latitude: 25.2448}, true)
	near := newGarage(t, s, "near@x.com", "L-near", &domain.GeoPoint{Longitude: 55.2708, Latitude: 25.2098}, true)
	newGarage(t, s, "unverified@x.com", "L-u", &domain.GeoPoint{Longitude: 55.2708, Latitude: 25.2050}, false)
	newGarage(t, s, "nowhere@x.com", "L-n", nil, true)
	inactive := newGarage(t, s, "inactive@x.com", "L-i", &domain.GeoPoint{Longitude: 55.2708, Latitude: 25.2049}, true)
	off := false
	_, err := s.Garages().UpdateProfile(ctx, inactive.ID, domain.GaragePatch{IsActive: &off})
	require.NoError(t, err)
	newGarage(t, s, "away@x.com", "L-a", &domain.GeoPoint{Longitude: 56.5, Latitude: 25.2}, true)

	got, err := s.Garages().FindNearby(ctx, domain.NearbyQuery{Point: origin, MaxDistanceMeters: 10000})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, near.ID, got[0].ID)
	assert.Equal(t, far.ID, got[1].ID)
	assert.Less(t, got[0].DistanceMeters, got[1].DistanceMeters)
	assert.LessOrEqual(t, got[1].DistanceMeters, 10000.0)
}

func TestWithGarageLocked_ConcurrentReviewsAreSerialized(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGarage(t, s, "g@x.com", "L-1", nil, true)

	const workers = 50
	customers := make([]*domain.Customer, workers)
	for i := range customers {
		customers[i] = newCustomer(t, s, fmt.Sprintf("c%d@x.com", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rating := i%domain.MaxRating + 1
			err := s.Reviews().WithGarageLocked(ctx, g.ID, func(ctx context.Context, scope repository.ReviewScope) error {
				review := &domain.Review{CustomerID: customers[i].ID, Rating: rating, CreatedAt: time.Now()}
				return scope.Append(ctx, review, scope.Ratings().Add(rating))
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ratings, reviews, err := s.Reviews().ListByGarage(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, workers)
	assert.Equal(t, workers, ratings.Count)

	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	assert.InDelta(t, float64(sum)/workers, ratings.Average, 1e-9)
	assert.Equal(t, "Ada", reviews[0].CustomerFirstName)
}

func TestWithGarageLocked_SameCustomerTwice(t *testing.T) {
	s := New()
	ctx := context.Background()
	g := newGarage(t, s, "g@x.com", "L-1", nil, true)
	c := newCustomer(t, s, "c@x.com")

	submit := func(ctx context.Context, scope repository.ReviewScope) error {
		return scope.Append(ctx, &domain.Review{CustomerID: c.ID, Rating: 4}, scope.Ratings().Add(4))
	}
	require.NoError(t, s.Reviews().WithGarageLocked(ctx, g.ID, submit))
	err := s.Reviews().WithGarageLocked(ctx, g.ID, submit)
	assert.True(t, repository.IsConflict(err, repository.FieldReview))

	ratings, _, err := s.Reviews().ListByGarage(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Ratings{Average: 4, Count: 1}, ratings)
}

func TestWithGarageLocked_UnknownGarageLeavesNoLock(t *testing.T) {
	s := New()
	ctx := context.Background()
	called := false
	fn := func(context.Context, repository.ReviewScope) error {
		called = true
		return nil
	}

	for i := 0; i < 50; i++ {
		err := s.Reviews().WithGarageLocked(ctx, uuid.NewString(), fn)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
	assert.False(t, called)

	s.locksMu.Lock()
	assert.Empty(t, s.garageLocks)
	s.locksMu.Unlock()

	g := newGarage(t, s, "g@x.com", "L-1", nil, true)
	require.NoError(t, s.Reviews().WithGarageLocked(ctx, g.ID, fn))
	assert.True(t, called)
	s.locksMu.Lock()
	assert.Len(t, s.garageLocks, 1)
	s.locksMu.Unlock()
}

func TestCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Accounts().GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
