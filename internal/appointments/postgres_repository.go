package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightsmile/clinic-platform/internal/users"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting mocks for tests.
func NewPostgresRepositoryWithDB(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const apptColumns = `id, user_id, user_name, user_email, phone_number, date, time, service,
	dentist_name, notes, status, approval_message, rejection_reason,
	reminder_set, reminder_date, created_at, updated_at`

// Create inserts a new appointment row.
func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	id := appt.ID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO appointments (id, user_id, user_name, user_email, phone_number,
			date, time, service, dentist_name, notes, status,
			reminder_set, reminder_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		appt.UserID,
		appt.UserName,
		users.NormalizeEmail(appt.UserEmail),
		appt.PhoneNumber,
		appt.Date,
		appt.Time,
		appt.Service,
		appt.DentistName,
		appt.Notes,
		appt.Status,
		appt.ReminderSet,
		appt.ReminderDate,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("appointments: insert failed: %w", err)
	}

	stored := *appt
	stored.ID = id
	stored.UserEmail = users.NormalizeEmail(appt.UserEmail)
	stored.CreatedAt = createdAt
	stored.UpdatedAt = updatedAt
	return &stored, nil
}

// GetByID fetches an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// Save replaces the mutable fields of an existing appointment.
func (r *PostgresRepository) Save(ctx context.Context, appt *Appointment) (*Appointment, error) {
	query := `
		UPDATE appointments
		SET date = $2,
		    time = $3,
		    service = $4,
		    dentist_name = $5,
		    notes = $6,
		    status = $7,
		    approval_message = $8,
		    rejection_reason = $9,
		    reminder_set = $10,
		    reminder_date = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + apptColumns
	return r.scanOne(r.db.QueryRow(ctx, query,
		appt.ID,
		appt.Date,
		appt.Time,
		appt.Service,
		appt.DentistName,
		appt.Notes,
		appt.Status,
		appt.ApprovalMessage,
		appt.RejectionReason,
		appt.ReminderSet,
		appt.ReminderDate,
	))
}

// Delete removes an appointment entirely.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUserEmail returns a patient's appointments, most recent date first.
func (r *PostgresRepository) ListByUserEmail(ctx context.Context, email string) ([]*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments WHERE user_email = $1 ORDER BY date DESC, time`
	return r.list(ctx, query, users.NormalizeEmail(email))
}

// ListByStatus returns appointments with the given status, earliest date first.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status string) ([]*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments WHERE status = $1 ORDER BY date, time`
	return r.list(ctx, query, status)
}

// ListAll returns every appointment, most recent date first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments ORDER BY date DESC, time`
	return r.list(ctx, query)
}

// ListForDate returns appointments on the given day, earliest slot first.
func (r *PostgresRepository) ListForDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	query := `SELECT ` + apptColumns + ` FROM appointments WHERE date = $1 ORDER BY time`
	return r.list(ctx, query, date)
}

// SlotTaken reports whether a non-cancelled appointment occupies date+slot.
func (r *PostgresRepository) SlotTaken(ctx context.Context, date time.Time, slot string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE date = $1 AND time = $2 AND status != $3
		)
	`
	var taken bool
	if err := r.db.QueryRow(ctx, query, date, slot, StatusCancelled).Scan(&taken); err != nil {
		return false, fmt.Errorf("appointments: conflict check failed: %w", err)
	}
	return taken, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows failed: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Appointment, error) {
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.UserName,
		&a.UserEmail,
		&a.PhoneNumber,
		&a.Date,
		&a.Time,
		&a.Service,
		&a.DentistName,
		&a.Notes,
		&a.Status,
		&a.ApprovalMessage,
		&a.RejectionReason,
		&a.ReminderSet,
		&a.ReminderDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("appointments: scan failed: %w", err)
	}
	return &a, nil
}
