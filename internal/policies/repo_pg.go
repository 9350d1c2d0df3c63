package policies

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const policyColumns = `id, user_id, client_id, policy_number, carrier, policy_type,
       effective_date, expiry_date, premium_amount, pdf_url, created_at, updated_at`

// Create inserts a new policy.
func (r *PGRepo) Create(ctx context.Context, policy Policy) error {
	const query = `
INSERT INTO policies (
	id, user_id, client_id, policy_number, carrier, policy_type,
	effective_date, expiry_date, premium_amount, pdf_url, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		policy.ID,
		policy.UserID,
		policy.ClientID,
		policy.PolicyNumber,
		policy.Carrier,
		policy.PolicyType,
		policy.EffectiveDate,
		policy.ExpiryDate,
		policy.PremiumAmount,
		policy.PDFURL,
		policy.CreatedAt,
		policy.UpdatedAt,
	)
	return err
}

// GetByID returns a policy scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, policyID string) (Policy, error) {
	const query = `
SELECT ` + policyColumns + `
FROM policies
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, policyID, userID)
	policy, err := scanPolicy(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Policy{}, ErrNotFound
		}
		return Policy{}, err
	}
	return policy, nil
}

// ListByUser lists policies for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Policy, error) {
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
SELECT ` + policyColumns + `
FROM policies
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, policy)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an existing policy.
func (r *PGRepo) Update(ctx context.Context, policy Policy) error {
	const query = `
UPDATE policies
SET client_id = $1,
    policy_number = $2,
    carrier = $3,
    policy_type = $4,
    effective_date = $5,
    expiry_date = $6,
    premium_amount = $7,
    pdf_url = $8,
    updated_at = now()
WHERE id = $9 AND user_id = $10`
	res, err := r.DB.ExecContext(ctx, query,
		policy.ClientID,
		policy.PolicyNumber,
		policy.Carrier,
		policy.PolicyType,
		policy.EffectiveDate,
		policy.ExpiryDate,
		policy.PremiumAmount,
		policy.PDFURL,
		policy.ID,
		policy.UserID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a policy owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userID, policyID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM policies WHERE id = $1 AND user_id = $2`, policyID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByClient counts policies attached to a client.
func (r *PGRepo) CountByClient(ctx context.Context, userID, clientID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM policies WHERE user_id = $1 AND client_id = $2`,
		userID, clientID,
	).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPolicy(row rowScanner) (Policy, error) {
	var p Policy
	var clientID sql.NullString
	var policyType sql.NullString
	var effectiveDate sql.NullString
	var expiryDate sql.NullString
	var premiumAmount sql.NullString
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&clientID,
		&p.PolicyNumber,
		&p.Carrier,
		&policyType,
		&effectiveDate,
		&expiryDate,
		&premiumAmount,
		&p.PDFURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Policy{}, err
	}
	if clientID.Valid {
		p.ClientID = &clientID.String
	}
	if policyType.Valid {
		p.PolicyType = &policyType.String
	}
	if effectiveDate.Valid {
		p.EffectiveDate = &effectiveDate.String
	}
	if expiryDate.Valid {
		p.ExpiryDate = &expiryDate.String
	}
	if premiumAmount.Valid {
		p.PremiumAmount = &premiumAmount.String
	}
	return p, nil
}

var _ Repo = (*PGRepo)(nil)
