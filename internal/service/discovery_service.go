package service

import (
	"context"
	"math"

	"github.com/spec-kit/garage-service/internal/cache"
	"github.com/spec-kit/garage-service/internal/config"
	"github.com/spec-kit/garage-service/internal/domain"
	"github.com/spec-kit/garage-service/internal/observability"
	"github.com/spec-kit/garage-service/internal/repository"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

// DiscoveryService answers nearby-garage queries.
type DiscoveryService struct {
	garages       repository.GarageRepository
	cache         *cache.NearbyCache
	metrics       *observability.Metrics
	defaultRadius float64
	maxRadius     float64
}

// NewDiscoveryService builds the service. cache and metrics may be nil.
func NewDiscoveryService(cfg config.DiscoveryConfig, garages repository.GarageRepository, nearby *cache.NearbyCache, metrics *observability.Metrics) *DiscoveryService {
	defaultRadius := cfg.DefaultRadiusMeters
	if defaultRadius <= 0 {
		defaultRadius = domain.DefaultSearchRadiusMeters
	}
	return &DiscoveryService{
		garages:       garages,
		cache:         nearby,
		metrics:       metrics,
		defaultRadius: defaultRadius,
		maxRadius:     cfg.MaxRadiusMeters,
	}
}

// NearbyInput is a proximity search request. Both coordinates are required;
// a nil MaxDistanceMeters uses the configured default.
type NearbyInput struct {
	Longitude         *float64
	Latitude          *float64
	MaxDistanceMeters *float64
}

// FindNearby returns verified, active garages within the radius, nearest first.
func (s *DiscoveryService) FindNearby(ctx context.Context, in NearbyInput) ([]domain.NearbyGarage, error) {
	if in.Longitude == nil || in.Latitude == nil {
		return nil, apperrors.NewValidationError("please provide latitude and longitude", nil)
	}
	point := domain.GeoPoint{Longitude: *in.Longitude, Latitude: *in.Latitude}
	if !point.Valid() {
		return nil, apperrors.NewValidationError("coordinates out of range",
			map[string]any{"longitude": "-180..180", "latitude": "-90..90"})
	}

	radius := s.defaultRadius
	if in.MaxDistanceMeters != nil {
		radius = *in.MaxDistanceMeters
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 || (s.maxRadius > 0 && radius > s.maxRadius) {
		return nil, apperrors.NewValidationError("maxDistance out of range",
			map[string]any{"maxDistance": s.maxRadius})
	}

	query := domain.NearbyQuery{Point: point, MaxDistanceMeters: radius}
	cached, key, ok := s.cache.Get(ctx, query)
	if ok {
		s.metrics.RecordCacheLookup(true)
		s.metrics.RecordNearbySearch(len(cached))
		return cached, nil
	}
	if s.cache != nil {
		s.metrics.RecordCacheLookup(false)
	}

	result, err := s.garages.FindNearby(ctx, query)
	if err != nil {
		return nil, mapRepoError(err, "garage")
	}
	s.cache.Set(ctx, key, result)
	s.metrics.RecordNearbySearch(len(result))
	return result, nil
}
