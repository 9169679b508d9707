package repo

import (
	"context"
	"database/sql"

	"github.com/payrail/payrail/internal/models"
)

// RecipientRepo persists payroll recipients.
type RecipientRepo struct {
	DB *sql.DB
}

// NewRecipientRepo returns a new RecipientRepo.
func NewRecipientRepo(db *sql.DB) *RecipientRepo {
	return &RecipientRepo{DB: db}
}

// Count returns the total number of recipients.
func (r *RecipientRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipients").Scan(&n)
	return n, err
}

// List returns recipients, most recent first. limit/offset for pagination.
func (r *RecipientRepo) List(ctx context.Context, limit, offset int) ([]models.Recipient, error) {
	query := `
		SELECT id, name, email, wallet_address, btc_address, rate, created_at
		FROM recipients
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Recipient
	for rows.Next() {
		var rec models.Recipient
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.WalletAddress, &rec.BTCAddress, &rec.Rate, &rec.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// GetByID returns one recipient by id, or nil if not found.
func (r *RecipientRepo) GetByID(ctx context.Context, id int) (*models.Recipient, error) {
	query := `
		SELECT id, name, email, wallet_address, btc_address, rate, created_at
		FROM recipients
		WHERE id = $1
	`
	rec := &models.Recipient{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.Name, &rec.Email, &rec.WalletAddress, &rec.BTCAddress, &rec.Rate, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Create inserts a new recipient and returns it with id set.
func (r *RecipientRepo) Create(ctx context.Context, rec models.Recipient) (*models.Recipient, error) {
	query := `
		INSERT INTO recipients (name, email, wallet_address, btc_address, rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, wallet_address, btc_address, rate, created_at
	`
	out := &models.Recipient{}
	err := r.DB.QueryRowContext(ctx, query, rec.Name, rec.Email, rec.WalletAddress, rec.BTCAddress, rec.Rate).
		Scan(&out.ID, &out.Name, &out.Email, &out.WalletAddress, &out.BTCAddress, &out.Rate, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update updates name, email, wallet addresses, and rate for the given id.
func (r *RecipientRepo) Update(ctx context.Context, id int, rec models.Recipient) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE recipients SET name = $1, email = $2, wallet_address = $3, btc_address = $4, rate = $5 WHERE id = $6`,
		rec.Name, rec.Email, rec.WalletAddress, rec.BTCAddress, rec.Rate, id,
	)
	return err
}

// Delete removes a recipient by id.
func (r *RecipientRepo) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM recipients WHERE id = $1`, id)
	return err
}
