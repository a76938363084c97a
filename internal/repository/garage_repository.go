package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-service/internal/domain"
)

// metersPerDegreeLat converts a radius into a latitude band for the index prefilter.
const metersPerDegreeLat = 111319.0

type garageRepository struct {
	pool *pgxpool.Pool
}

// NewGarageRepository returns a Postgres-backed implementation.
func NewGarageRepository(pool *pgxpool.Pool) GarageRepository {
	return &garageRepository{pool: pool}
}

func (r *garageRepository) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	garage, err := getGarage(ctx, r.pool, id)
	return garage, mapError(err)
}

func getGarage(ctx context.Context, q querier, id string) (*domain.Garage, error) {
	const query = `
        SELECT a.id, a.email, a.password_hash, a.first_name, a.last_name, a.phone, a.role, a.created_at, a.updated_at,
               g.garage_name, g.business_license, g.address, g.longitude, g.latitude, g.operating_hours,
               g.services, g.specialties, g.rating_average, g.rating_count, g.is_verified, g.is_active
        FROM accounts a
        JOIN garage_profiles g ON g.account_id = a.id
        WHERE a.id=$1`

	var (
		garage                   domain.Garage
		address, hours, services []byte
		lon, lat                 *float64
	)
	err := scanAccount(q.QueryRow(ctx, query, id), &garage.Account,
		&garage.GarageName,
		&garage.BusinessLicense,
		&address,
		&lon,
		&lat,
		&hours,
		&services,
		&garage.Specialties,
		&garage.Ratings.Average,
		&garage.Ratings.Count,
		&garage.IsVerified,
		&garage.IsActive,
	)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(address, &garage.Address); err != nil {
		return nil, err
	}
	if err := fromJSON(hours, &garage.OperatingHours); err != nil {
		return nil, err
	}
	garage.Services = []domain.Service{}
	if err := fromJSON(services, &garage.Services); err != nil {
		return nil, err
	}
	if garage.Specialties == nil {
		garage.Specialties = []string{}
	}
	if lon != nil && lat != nil {
		garage.Location = &domain.GeoPoint{Longitude: *lon, Latitude: *lat}
	}

	reviews, err := listReviews(ctx, q, id)
	if err != nil {
		return nil, err
	}
	garage.Reviews = make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		garage.Reviews = append(garage.Reviews, rv.Review)
	}
	return &garage, nil
}

func (r *garageRepository) UpdateProfile(ctx context.Context, id string, patch domain.GaragePatch) (*domain.Garage, error) {
	var garage *domain.Garage
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateAccountFields(ctx, tx, id, patch.FirstName, patch.LastName, patch.Phone); err != nil {
			return err
		}

		args := []any{}
		clauses := []string{}
		if patch.GarageName != nil {
			args = append(args, *patch.GarageName)
			clauses = append(clauses, fmt.Sprintf("garage_name=$%d", len(args)))
		}
		if patch.BusinessLicense != nil {
			args = append(args, *patch.BusinessLicense)
			clauses = append(clauses, fmt.Sprintf("business_license=$%d", len(args)))
		}
		if patch.Address != nil {
			scratch := &domain.Garage{}
			domain.GaragePatch{Address: patch.Address}.Apply(scratch)
			address, err := toJSON(scratch.Address)
			if err != nil {
				return err
			}
			args = append(args, address)
			clauses = append(clauses, fmt.Sprintf("address=$%d::jsonb", len(args)))
		}
		if patch.Location != nil {
			args = append(args, patch.Location.Longitude)
			clauses = append(clauses, fmt.Sprintf("longitude=$%d", len(args)))
			args = append(args, patch.Location.Latitude)
			clauses = append(clauses, fmt.Sprintf("latitude=$%d", len(args)))
		}
		if patch.IsActive != nil {
			args = append(args, *patch.IsActive)
			clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
		}

		if len(clauses) > 0 {
			args = append(args, id)
			query := fmt.Sprintf("UPDATE garage_profiles SET %s WHERE account_id=$%d", strings.Join(clauses, ", "), len(args))
			cmd, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
		}

		var err error
		garage, err = getGarage(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return garage, nil
}

func (r *garageRepository) AppendService(ctx context.Context, id string, service *domain.Service) error {
	payload, err := toJSON([]domain.Service{*service})
	if err != nil {
		return err
	}
	const query = `
        WITH g AS (
            UPDATE garage_profiles SET services = services || $2::jsonb
            WHERE account_id=$1
            RETURNING account_id
        )
        UPDATE accounts SET updated_at=NOW() FROM g WHERE accounts.id = g.account_id`
	return r.execTouch(ctx, query, id, payload)
}

func (r *garageRepository) ReplaceOperatingHours(ctx context.Context, id string, hours domain.OperatingHours) error {
	payload, err := toJSON(hours)
	if err != nil {
		return err
	}
	const query = `
        WITH g AS (
            UPDATE garage_profiles SET operating_hours = $2::jsonb
            WHERE account_id=$1
            RETURNING account_id
        )
        UPDATE accounts SET updated_at=NOW() FROM g WHERE accounts.id = g.account_id`
	return r.execTouch(ctx, query, id, payload)
}

func (r *garageRepository) ReplaceSpecialties(ctx context.Context, id string, specialties []string) error {
	const query = `
        WITH g AS (
            UPDATE garage_profiles SET specialties = $2
            WHERE account_id=$1
            RETURNING account_id
        )
        UPDATE accounts SET updated_at=NOW() FROM g WHERE accounts.id = g.account_id`
	return r.execTouch(ctx, query, id, specialties)
}

func (r *garageRepository) execTouch(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *garageRepository) FindNearby(ctx context.Context, q domain.NearbyQuery) ([]domain.NearbyGarage, error) {
	// Haversine over (longitude, latitude); the latitude band only narrows the scan.
	const query = `
        SELECT id, garage_name, address, longitude, latitude, operating_hours, services, specialties,
               rating_average, rating_count, distance
        FROM (
            SELECT g.account_id AS id, g.garage_name, g.address, g.longitude, g.latitude, g.operating_hours,
                   g.services, g.specialties, g.rating_average, g.rating_count,
                   2 * $4::float8 * asin(least(1.0, sqrt(
                       power(sin(radians(g.latitude - $2::float8) / 2), 2) +
                       cos(radians($2::float8)) * cos(radians(g.latitude)) *
                       power(sin(radians(g.longitude - $1::float8) / 2), 2)
                   ))) AS distance
            FROM garage_profiles g
            WHERE g.is_verified AND g.is_active
              AND g.longitude IS NOT NULL AND g.latitude IS NOT NULL
              AND g.latitude BETWEEN $2::float8 - $5::float8 AND $2::float8 + $5::float8
        ) nearby
        WHERE distance <= $3::float8
        ORDER BY distance, id`

	latBand := q.MaxDistanceMeters/metersPerDegreeLat + 0.01
	rows, err := r.pool.Query(ctx, query,
		q.Point.Longitude,
		q.Point.Latitude,
		q.MaxDistanceMeters,
		domain.EarthRadiusMeters,
		latBand,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.NearbyGarage{}
	for rows.Next() {
		var (
			g                        domain.NearbyGarage
			address, hours, services []byte
		)
		if err := rows.Scan(
			&g.ID,
			&g.GarageName,
			&address,
			&g.Location.Longitude,
			&g.Location.Latitude,
			&hours,
			&services,
			&g.Specialties,
			&g.Ratings.Average,
			&g.Ratings.Count,
			&g.DistanceMeters,
		); err != nil {
			return nil, mapError(err)
		}
		if err := fromJSON(address, &g.Address); err != nil {
			return nil, err
		}
		if err := fromJSON(hours, &g.OperatingHours); err != nil {
			return nil, err
		}
		g.Services = []domain.Service{}
		if err := fromJSON(services, &g.Services); err != nil {
			return nil, err
		}
		if g.Specialties == nil {
			g.Specialties = []string{}
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return result, nil
}
