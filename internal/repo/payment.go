package repo

import (
	"context"
	"database/sql"

	"github.com/payrail/payrail/internal/models"
)

// PaymentRepo persists payroll execution records.
type PaymentRepo struct {
	DB *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db}
}

// Create inserts a payment record and returns its id.
func (r *PaymentRepo) Create(ctx context.Context, p models.Payment) (int, error) {
	var id int
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO payments (schedule_id, tx_id, amount, status, kind)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		nullInt(p.ScheduleID), p.TxID, p.Amount, p.Status, p.Kind,
	).Scan(&id)
	return id, err
}

func nullInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// Count returns the total number of payments.
func (r *PaymentRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM payments").Scan(&n)
	return n, err
}

// List returns payments, most recent first. limit/offset for pagination.
func (r *PaymentRepo) List(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, schedule_id, tx_id, amount, status, kind, created_at
		 FROM payments ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Payment
	for rows.Next() {
		var p models.Payment
		var scheduleID sql.NullInt64
		if err := rows.Scan(&p.ID, &scheduleID, &p.TxID, &p.Amount, &p.Status, &p.Kind, &p.CreatedAt); err != nil {
			return nil, err
		}
		if scheduleID.Valid {
			id := int(scheduleID.Int64)
			p.ScheduleID = &id
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// TotalPaid returns the summed amount of successful payments.
func (r *PaymentRepo) TotalPaid(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'success'`,
	).Scan(&total)
	return total, err
}
