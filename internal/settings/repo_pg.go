package settings

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the user's settings.
func (r *PGRepo) Get(ctx context.Context, userID string) (CompanySettings, error) {
	const query = `
SELECT user_id, company_name, logo_url, brand_color, updated_at
FROM company_settings
WHERE user_id = $1
LIMIT 1`
	var s CompanySettings
	var companyName sql.NullString
	var logoURL sql.NullString
	var brandColor sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID,
		&companyName,
		&logoURL,
		&brandColor,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CompanySettings{}, ErrNotFound
		}
		return CompanySettings{}, err
	}
	if companyName.Valid {
		s.CompanyName = &companyName.String
	}
	if logoURL.Valid {
		s.LogoURL = &logoURL.String
	}
	if brandColor.Valid {
		s.BrandColor = &brandColor.String
	}
	return s, nil
}

// Upsert inserts or replaces the user's settings.
func (r *PGRepo) Upsert(ctx context.Context, settings CompanySettings) error {
	const query = `
INSERT INTO company_settings (user_id, company_name, logo_url, brand_color, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id) DO UPDATE
SET company_name = EXCLUDED.company_name,
    logo_url = EXCLUDED.logo_url,
    brand_color = EXCLUDED.brand_color,
    updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		settings.UserID,
		settings.CompanyName,
		settings.LogoURL,
		settings.BrandColor,
	)
	return err
}

var _ Repo = (*PGRepo)(nil)
