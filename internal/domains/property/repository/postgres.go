package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybook-backend/internal/domains/property"
)

const propertyColumns = `id, host_id, name, description, location,
	price_per_night, max_guests, verified, available, created_at, updated_at`

type postgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) property.Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, p *property.Property) error {
	query := `
		INSERT INTO properties (id, host_id, name, description, location,
			price_per_night, max_guests, verified, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.HostID, p.Name, p.Description, p.Location,
		p.PricePerNight, p.MaxGuests, p.Verified, p.Available, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create property: %w", err)
	}
	return nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepo) Update(ctx context.Context, p *property.Property) error {
	query := `
		UPDATE properties
		SET name = $2, description = $3, location = $4, price_per_night = $5,
			max_guests = $6, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Location, p.PricePerNight, p.MaxGuests)
	if err != nil {
		return fmt.Errorf("update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		// Bookings keep a restrict FK on the property.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return property.ErrHasBookings
		}
		return fmt.Errorf("delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (r *postgresRepo) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE properties SET available = $2, updated_at = NOW() WHERE id = $1`, id, available)
	if err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (r *postgresRepo) MarkVerified(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE properties SET verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}
	return nil
}

func (r *postgresRepo) ListEligible(ctx context.Context) ([]property.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE verified = TRUE AND available = TRUE
		ORDER BY created_at
	`
	return r.list(ctx, query)
}

func (r *postgresRepo) ListByHost(ctx context.Context, hostID uuid.UUID) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE host_id = $1 ORDER BY created_at`
	return r.list(ctx, query, hostID)
}

func (r *postgresRepo) ListUnverified(ctx context.Context) ([]property.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE verified = FALSE ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *postgresRepo) list(ctx context.Context, query string, args ...interface{}) ([]property.Property, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var properties []property.Property
	for rows.Next() {
		var p property.Property
		if err := rows.Scan(
			&p.ID, &p.HostID, &p.Name, &p.Description, &p.Location,
			&p.PricePerNight, &p.MaxGuests, &p.Verified, &p.Available,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func scanOne(row pgx.Row) (*property.Property, error) {
	p := &property.Property{}
	err := row.Scan(
		&p.ID, &p.HostID, &p.Name, &p.Description, &p.Location,
		&p.PricePerNight, &p.MaxGuests, &p.Verified, &p.Available,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, property.ErrPropertyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan property: %w", err)
	}
	return p, nil
}
