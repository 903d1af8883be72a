package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staybook-backend/internal/domains/host"
)

const hostColumns = `id, user_id, bio, address, identity_document, social_link,
	profile_photo_url, verification_status, created_at, updated_at`

type postgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) host.Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, h *host.Host) error {
	query := `
		INSERT INTO hosts (id, user_id, bio, address, identity_document,
			social_link, profile_photo_url, verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		h.ID, h.UserID, h.Bio, h.Address, h.IdentityDocument,
		h.SocialLink, h.ProfilePhotoURL, h.VerificationStatus, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id uuid.UUID) (*host.Host, error) {
	query := `SELECT ` + hostColumns + ` FROM hosts WHERE id = $1`
	return scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*host.Host, error) {
	query := `SELECT ` + hostColumns + ` FROM hosts WHERE user_id = $1`
	return scanOne(r.db.QueryRow(ctx, query, userID))
}

func (r *postgresRepo) Update(ctx context.Context, h *host.Host) error {
	query := `
		UPDATE hosts
		SET bio = $2, address = $3, social_link = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, h.ID, h.Bio, h.Address, h.SocialLink)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return host.ErrHostNotFound
	}
	return nil
}

func (r *postgresRepo) UpdatePhotoURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE hosts SET profile_photo_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update photo url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return host.ErrHostNotFound
	}
	return nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id uuid.UUID, status host.VerificationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE hosts SET verification_status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set host status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return host.ErrHostNotFound
	}
	return nil
}

func (r *postgresRepo) ListVerified(ctx context.Context) ([]host.Host, error) {
	return r.list(ctx, host.StatusVerified)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, status host.VerificationStatus) ([]host.Host, error) {
	return r.list(ctx, status)
}

func (r *postgresRepo) list(ctx context.Context, status host.VerificationStatus) ([]host.Host, error) {
	query := `
		SELECT ` + hostColumns + `
		FROM hosts
		WHERE verification_status = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []host.Host
	for rows.Next() {
		var h host.Host
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.Bio, &h.Address, &h.IdentityDocument, &h.SocialLink,
			&h.ProfilePhotoURL, &h.VerificationStatus, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan host: %w", err)
		}
		hosts = append(hosts, h)
	}
	return hosts, rows.Err()
}

func scanOne(row pgx.Row) (*host.Host, error) {
	h := &host.Host{}
	err := row.Scan(
		&h.ID, &h.UserID, &h.Bio, &h.Address, &h.IdentityDocument, &h.SocialLink,
		&h.ProfilePhotoURL, &h.VerificationStatus, &h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, host.ErrHostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan host: %w", err)
	}
	return h, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "user_id"):
			return host.ErrAlreadyApplied
		case strings.Contains(pgErr.ConstraintName, "social_link"):
			return host.ErrSocialLinkTaken
		}
	}
	return fmt.Errorf("write host: %w", err)
}
