package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-service/internal/domain"
)

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const insertAccountSQL = `
        INSERT INTO accounts (email, password_hash, first_name, last_name, phone, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

func insertAccount(ctx context.Context, q querier, account *domain.Account) error {
	return q.QueryRow(ctx, insertAccountSQL,
		account.Email,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.Phone,
		account.Role,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	address, err := toJSON(customer.Address)
	if err != nil {
		return err
	}
	vehicles, err := toJSON(customer.Vehicles)
	if err != nil {
		return err
	}
	history, err := toJSON(customer.ServiceHistory)
	if err != nil {
		return err
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, &customer.Account); err != nil {
			return err
		}
		const query = `
            INSERT INTO customer_profiles (account_id, address, vehicles, service_history)
            VALUES ($1, $2::jsonb, $3::jsonb, $4::jsonb)`
		_, err := tx.Exec(ctx, query, customer.ID, address, vehicles, history)
		return err
	})
	return mapError(err)
}

func (r *accountRepository) CreateGarage(ctx context.Context, garage *domain.Garage) error {
	address, err := toJSON(garage.Address)
	if err != nil {
		return err
	}
	hours, err := toJSON(garage.OperatingHours)
	if err != nil {
		return err
	}
	services, err := toJSON(garage.Services)
	if err != nil {
		return err
	}

	var lon, lat *float64
	if garage.Location != nil {
		lon, lat = &garage.Location.Longitude, &garage.Location.Latitude
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, &garage.Account); err != nil {
			return err
		}
		const query = `
            INSERT INTO garage_profiles (account_id, garage_name, business_license, address, longitude, latitude,
                operating_hours, services, specialties, is_verified, is_active)
            VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7::jsonb, $8::jsonb, $9, $10, $11)`
		_, err := tx.Exec(ctx, query,
			garage.ID,
			garage.GarageName,
			garage.BusinessLicense,
			address,
			lon,
			lat,
			hours,
			services,
			garage.Specialties,
			garage.IsVerified,
			garage.IsActive,
		)
		return err
	})
	return mapError(err)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, first_name, last_name, phone, role, created_at, updated_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, first_name, last_name, phone, role, created_at, updated_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := scanAccount(r.pool.QueryRow(ctx, query, arg), &account); err != nil {
		return nil, mapError(err)
	}
	return &account, nil
}

func scanAccount(row pgx.Row, account *domain.Account, extra ...any) error {
	dest := []any{
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.Phone,
		&account.Role,
		&account.CreatedAt,
		&account.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}
