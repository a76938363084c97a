package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/garage-service/internal/domain"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := getCustomer(ctx, r.pool, id)
	return customer, mapError(err)
}

func getCustomer(ctx context.Context, q querier, id string) (*domain.Customer, error) {
	const query = `
        SELECT a.id, a.email, a.password_hash, a.first_name, a.last_name, a.phone, a.role, a.created_at, a.updated_at,
               c.address, c.vehicles, c.service_history
        FROM accounts a
        JOIN customer_profiles c ON c.account_id = a.id
        WHERE a.id=$1`

	var (
		customer                   domain.Customer
		address, vehicles, history []byte
	)
	if err := scanAccount(q.QueryRow(ctx, query, id), &customer.Account, &address, &vehicles, &history); err != nil {
		return nil, err
	}
	if err := fromJSON(address, &customer.Address); err != nil {
		return nil, err
	}
	customer.Vehicles = []domain.Vehicle{}
	if err := fromJSON(vehicles, &customer.Vehicles); err != nil {
		return nil, err
	}
	customer.ServiceHistory = []domain.ServiceRecord{}
	if err := fromJSON(history, &customer.ServiceHistory); err != nil {
		return nil, err
	}

	preferred, err := listPreferred(ctx, q, id)
	if err != nil {
		return nil, err
	}
	customer.PreferredGarages = preferred
	return &customer, nil
}

func listPreferred(ctx context.Context, q querier, customerID string) ([]string, error) {
	const query = `
        SELECT garage_id FROM customer_preferred_garages
        WHERE customer_id=$1 ORDER BY id`

	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var garageID string
		if err := rows.Scan(&garageID); err != nil {
			return nil, err
		}
		result = append(result, garageID)
	}
	return result, rows.Err()
}

func (r *customerRepository) UpdateProfile(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	var customer *domain.Customer
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateAccountFields(ctx, tx, id, patch.FirstName, patch.LastName, patch.Phone); err != nil {
			return err
		}
		if patch.Address != nil {
			// Apply on a scratch value to pick up the address defaults.
			scratch := &domain.Customer{}
			domain.CustomerPatch{Address: patch.Address}.Apply(scratch)
			address, err := toJSON(scratch.Address)
			if err != nil {
				return err
			}
			cmd, err := tx.Exec(ctx, `UPDATE customer_profiles SET address=$1::jsonb WHERE account_id=$2`, address, id)
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
		}
		var err error
		customer, err = getCustomer(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return customer, nil
}

// updateAccountFields applies the shared name/phone fields and bumps updated_at.
// It runs even for an empty set so a missing account surfaces as ErrNoRows.
func updateAccountFields(ctx context.Context, q querier, id string, firstName, lastName, phone *string) error {
	args := []any{}
	clauses := []string{}

	if firstName != nil {
		args = append(args, *firstName)
		clauses = append(clauses, fmt.Sprintf("first_name=$%d", len(args)))
	}
	if lastName != nil {
		args = append(args, *lastName)
		clauses = append(clauses, fmt.Sprintf("last_name=$%d", len(args)))
	}
	if phone != nil {
		args = append(args, *phone)
		clauses = append(clauses, fmt.Sprintf("phone=$%d", len(args)))
	}
	clauses = append(clauses, "updated_at=NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE accounts SET %s WHERE id=$%d", strings.Join(clauses, ", "), len(args))
	cmd, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customerRepository) AppendVehicle(ctx context.Context, id string, vehicle *domain.Vehicle) error {
	payload, err := toJSON([]domain.Vehicle{*vehicle})
	if err != nil {
		return err
	}
	const query = `
        WITH c AS (
            UPDATE customer_profiles SET vehicles = vehicles || $2::jsonb
            WHERE account_id=$1
            RETURNING account_id
        )
        UPDATE accounts SET updated_at=NOW() FROM c WHERE accounts.id = c.account_id`

	cmd, err := r.pool.Exec(ctx, query, id, payload)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *customerRepository) AddPreferredGarage(ctx context.Context, customerID, garageID string) ([]string, error) {
	var preferred []string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO customer_preferred_garages (customer_id, garage_id)
            VALUES ($1, $2)`
		if _, err := tx.Exec(ctx, query, customerID, garageID); err != nil {
			return err
		}
		var err error
		preferred, err = listPreferred(ctx, tx, customerID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return preferred, nil
}
