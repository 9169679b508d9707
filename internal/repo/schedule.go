package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/payrail/payrail/internal/models"
	"github.com/payrail/payrail/internal/schedule"
)

// ScheduleRepo persists payroll schedules and their recipient lines.
type ScheduleRepo struct {
	DB *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{DB: db}
}

const scheduleCols = `id, name, frequency, pay_day, status, next_run_at, created_at`

func scanSchedule(row interface{ Scan(...any) error }, s *models.PaySchedule) error {
	return row.Scan(&s.ID, &s.Name, &s.Frequency, &s.PayDay, &s.Status, &s.NextRunAt, &s.CreatedAt)
}

// Count returns the total number of schedules.
func (r *ScheduleRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM payroll_schedules").Scan(&n)
	return n, err
}

// List returns schedules, most recent first. limit/offset for pagination.
func (r *ScheduleRepo) List(ctx context.Context, limit, offset int) ([]models.PaySchedule, error) {
	query := `
		SELECT ` + scheduleCols + `
		FROM payroll_schedules
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PaySchedule
	for rows.Next() {
		var s models.PaySchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListDue returns schedules whose next run is on or before today and
// whose status permits execution. This is the selection the daily
// due-payroll check feeds on.
func (r *ScheduleRepo) ListDue(ctx context.Context, today time.Time) ([]models.PaySchedule, error) {
	query := `
		SELECT ` + scheduleCols + `
		FROM payroll_schedules
		WHERE next_run_at::date <= $1::date AND status IN ('draft', 'ready')
		ORDER BY id
	`
	rows, err := r.DB.QueryContext(ctx, query, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PaySchedule
	for rows.Next() {
		var s models.PaySchedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByID returns one schedule with its items, or nil if not found.
func (r *ScheduleRepo) GetByID(ctx context.Context, id int) (*models.PaySchedule, error) {
	query := `
		SELECT ` + scheduleCols + `
		FROM payroll_schedules
		WHERE id = $1
	`
	s := &models.PaySchedule{}
	err := scanSchedule(r.DB.QueryRowContext(ctx, query, id), s)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// Create inserts a schedule and its items in one transaction and returns
// the schedule with ids set.
func (r *ScheduleRepo) Create(ctx context.Context, s models.PaySchedule) (*models.PaySchedule, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := &models.PaySchedule{}
	err = scanSchedule(tx.QueryRowContext(ctx,
		`INSERT INTO payroll_schedules (name, frequency, pay_day, status, next_run_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+scheduleCols,
		s.Name, s.Frequency, s.PayDay, s.Status, s.NextRunAt,
	), out)
	if err != nil {
		return nil, err
	}

	for _, item := range s.Items {
		var it models.ScheduleItem
		err = tx.QueryRowContext(ctx,
			`INSERT INTO payroll_schedule_items (schedule_id, recipient_id, amount)
			 VALUES ($1, $2, $3)
			 RETURNING id, schedule_id, recipient_id, amount`,
			out.ID, item.RecipientID, item.Amount,
		).Scan(&it.ID, &it.ScheduleID, &it.RecipientID, &it.Amount)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, it)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites name, frequency, pay_day, and next_run_at, and
// replaces the item lines, in one transaction.
func (r *ScheduleRepo) Update(ctx context.Context, id int, s models.PaySchedule) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE payroll_schedules SET name = $1, frequency = $2, pay_day = $3, next_run_at = $4 WHERE id = $5`,
		s.Name, s.Frequency, s.PayDay, s.NextRunAt, id,
	)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payroll_schedule_items WHERE schedule_id = $1`, id); err != nil {
		return err
	}
	for _, item := range s.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO payroll_schedule_items (schedule_id, recipient_id, amount) VALUES ($1, $2, $3)`,
			id, item.RecipientID, item.Amount,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UpdateStatus sets the schedule's status. Transition legality is the
// caller's responsibility (checked through the schedule package).
func (r *ScheduleRepo) UpdateStatus(ctx context.Context, id int, status schedule.Status) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE payroll_schedules SET status = $1 WHERE id = $2`,
		status, id,
	)
	return err
}

// UpdateNextRun sets the schedule's next run instant.
func (r *ScheduleRepo) UpdateNextRun(ctx context.Context, id int, nextRunAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE payroll_schedules SET next_run_at = $1 WHERE id = $2`,
		nextRunAt, id,
	)
	return err
}

// Delete removes a schedule by id. Items cascade.
func (r *ScheduleRepo) Delete(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM payroll_schedules WHERE id = $1`, id)
	return err
}

// Items returns the recipient lines of a schedule.
func (r *ScheduleRepo) Items(ctx context.Context, scheduleID int) ([]models.ScheduleItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, schedule_id, recipient_id, amount FROM payroll_schedule_items WHERE schedule_id = $1 ORDER BY id`,
		scheduleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ScheduleItem
	for rows.Next() {
		var it models.ScheduleItem
		if err := rows.Scan(&it.ID, &it.ScheduleID, &it.RecipientID, &it.Amount); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// PayLines returns the schedule's items joined with their recipients:
// the shape handed to the notification and wallet-signing collaborators.
func (r *ScheduleRepo) PayLines(ctx context.Context, scheduleID int) ([]models.PayLine, error) {
	query := `
		SELECT i.recipient_id, r.name, r.email, r.wallet_address, i.amount
		FROM payroll_schedule_items i
		JOIN recipients r ON r.id = i.recipient_id
		WHERE i.schedule_id = $1
		ORDER BY i.id
	`
	rows, err := r.DB.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.PayLine
	for rows.Next() {
		var l models.PayLine
		if err := rows.Scan(&l.RecipientID, &l.Name, &l.Email, &l.WalletAddress, &l.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
