package clients

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const clientColumns = `id, user_id, name, email, phone, notes, created_at, updated_at`

// Create inserts a new client.
func (r *PGRepo) Create(ctx context.Context, client Client) error {
	const query = `
INSERT INTO clients (id, user_id, name, email, phone, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

// GetByID returns a client scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, clientID string) (Client, error) {
	const query = `
SELECT ` + clientColumns + `
FROM clients
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, clientID, userID)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return client, nil
}

// ListByUser lists clients for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Client, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT ` + clientColumns + `
FROM clients
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, client)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an existing client.
func (r *PGRepo) Update(ctx context.Context, client Client) error {
	const query = `
UPDATE clients
SET name = $1,
    email = $2,
    phone = $3,
    notes = $4,
    updated_at = now()
WHERE id = $5 AND user_id = $6`
	res, err := r.DB.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.Notes,
		client.ID,
		client.UserID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a client owned by the user. Policies keep their rows and lose
// the client link via the foreign key.
func (r *PGRepo) Delete(ctx context.Context, userID, clientID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, clientID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (Client, error) {
	var c Client
	var email sql.NullString
	var phone sql.NullString
	var notes sql.NullString
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&email,
		&phone,
		&notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Client{}, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	return c, nil
}

var _ Repo = (*PGRepo)(nil)
