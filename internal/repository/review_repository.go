package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-service/internal/domain"
)

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a Postgres-backed implementation.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

// WithGarageLocked holds a row lock on the garage for the duration of fn.
func (r *reviewRepository) WithGarageLocked(ctx context.Context, garageID string, fn ReviewTxFn) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            SELECT rating_average, rating_count FROM garage_profiles
            WHERE account_id=$1 FOR UPDATE`

		scope := &pgReviewScope{tx: tx, garageID: garageID}
		if err := tx.QueryRow(ctx, query, garageID).Scan(&scope.ratings.Average, &scope.ratings.Count); err != nil {
			return err
		}
		if err := fn(ctx, scope); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	return mapError(err)
}

func (r *reviewRepository) ListByGarage(ctx context.Context, garageID string) (domain.Ratings, []domain.ReviewWithAuthor, error) {
	var ratings domain.Ratings
	const query = `SELECT rating_average, rating_count FROM garage_profiles WHERE account_id=$1`
	if err := r.pool.QueryRow(ctx, query, garageID).Scan(&ratings.Average, &ratings.Count); err != nil {
		return domain.Ratings{}, nil, mapError(err)
	}
	reviews, err := listReviews(ctx, r.pool, garageID)
	if err != nil {
		return domain.Ratings{}, nil, mapError(err)
	}
	return ratings, reviews, nil
}

func listReviews(ctx context.Context, q querier, garageID string) ([]domain.ReviewWithAuthor, error) {
	const query = `
        SELECT r.id, r.customer_id, r.rating, r.comment, r.created_at,
               COALESCE(a.first_name, ''), COALESCE(a.last_name, '')
        FROM garage_reviews r
        LEFT JOIN accounts a ON a.id = r.customer_id
        WHERE r.garage_id=$1
        ORDER BY r.created_at, r.id`

	rows, err := q.Query(ctx, query, garageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ReviewWithAuthor{}
	for rows.Next() {
		var rv domain.ReviewWithAuthor
		if err := rows.Scan(
			&rv.ID,
			&rv.CustomerID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.CustomerFirstName,
			&rv.CustomerLastName,
		); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	return result, rows.Err()
}

type pgReviewScope struct {
	tx       pgx.Tx
	garageID string
	ratings  domain.Ratings
}

func (s *pgReviewScope) Ratings() domain.Ratings {
	return s.ratings
}

func (s *pgReviewScope) HasReviewFrom(ctx context.Context, customerID string) (bool, error) {
	const query = `
        SELECT EXISTS (SELECT 1 FROM garage_reviews WHERE garage_id=$1 AND customer_id=$2)`
	var exists bool
	if err := s.tx.QueryRow(ctx, query, s.garageID, customerID).Scan(&exists); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (s *pgReviewScope) Append(ctx context.Context, review *domain.Review, next domain.Ratings) error {
	const insert = `
        INSERT INTO garage_reviews (garage_id, customer_id, rating, comment, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	if err := s.tx.QueryRow(ctx, insert,
		s.garageID,
		review.CustomerID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	).Scan(&review.ID); err != nil {
		return mapError(err)
	}

	// Guarded by the previous count so a write outside this lock cannot be overwritten.
	const update = `
        UPDATE garage_profiles SET rating_average=$1, rating_count=$2
        WHERE account_id=$3 AND rating_count=$4`
	cmd, err := s.tx.Exec(ctx, update, next.Average, next.Count, s.garageID, s.ratings.Count)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrConcurrentUpdate
	}
	s.ratings = next
	return nil
}
