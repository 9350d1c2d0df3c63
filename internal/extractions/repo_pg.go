package extractions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const extractionColumns = `id, user_id, policy_id, file_name, raw_text, summary, provider, model, created_at`

// Create inserts a new extraction.
func (r *PGRepo) Create(ctx context.Context, extraction Extraction) error {
	const query = `
INSERT INTO policy_extractions (
	id, user_id, policy_id, file_name, raw_text, summary, provider, model, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	payload, err := marshalJSONB(extraction.Summary)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		extraction.ID,
		extraction.UserID,
		extraction.PolicyID,
		extraction.FileName,
		extraction.RawText,
		payload,
		extraction.Provider,
		extraction.Model,
		extraction.CreatedAt,
	)
	return err
}

// GetByID returns an extraction scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, extractionID string) (Extraction, error) {
	const query = `
SELECT ` + extractionColumns + `
FROM policy_extractions
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, extractionID, userID)
	extraction, err := scanExtraction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotFound
		}
		return Extraction{}, err
	}
	return extraction, nil
}

// ListByUser lists extractions for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Extraction, error) {
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
SELECT ` + extractionColumns + `
FROM policy_extractions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		extraction, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, extraction)
	}
	return out, rows.Err()
}

// Delete removes an extraction owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userID, extractionID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM policy_extractions WHERE id = $1 AND user_id = $2`,
		extractionID, userID,
	)
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

func scanExtraction(row rowScanner) (Extraction, error) {
	var e Extraction
	var policyID sql.NullString
	var rawText sql.NullString
	var summary sql.NullString
	var provider sql.NullString
	var model sql.NullString
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&policyID,
		&e.FileName,
		&rawText,
		&summary,
		&provider,
		&model,
		&e.CreatedAt,
	)
	if err != nil {
		return Extraction{}, err
	}
	if policyID.Valid {
		e.PolicyID = &policyID.String
	}
	if rawText.Valid {
		e.RawText = rawText.String
	}
	if summary.Valid {
		e.Summary = map[string]any{}
		if err := json.Unmarshal([]byte(summary.String), &e.Summary); err != nil {
			e.Summary = nil
		}
	}
	if provider.Valid {
		e.Provider = provider.String
	}
	if model.Valid {
		e.Model = model.String
	}
	return e, nil
}

func marshalJSONB(value map[string]any) ([]byte, error) {
	if value == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(value)
}

var _ Repo = (*PGRepo)(nil)
