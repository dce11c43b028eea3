package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/db"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/logger"
)

var appointmentColumns = []string{
	"a.id", "a.title", "to_char(a.date, 'YYYY-MM-DD')", "to_char(a.time, 'HH24:MI')", "a.location", "a.notes",
	"a.status", "a.advisor_id", "a.student_id", "a.project_id", "a.created_at", "a.updated_at",
}

// AppointmentFilter narrows an appointment listing. Zero values are ignored.
type AppointmentFilter struct {
	AdvisorID *int64
	// VisibleToStudent keeps appointments bound to the student or attached to
	// one of their projects
	VisibleToStudent *int64
	Status           models.AppointmentStatus
	ProjectID        *int64
	FromDate         string
	ToDate           string
	Offset           uint64
	Limit            uint64
}

// AppointmentRepository handles appointment database operations
type AppointmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAppointmentRepository creates a new AppointmentRepository
func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAppointment(row pgx.Row, extra ...any) (*models.Appointment, error) {
	var a models.Appointment
	dest := []any{&a.ID, &a.Title, &a.Date, &a.Time, &a.Location, &a.Notes,
		&a.Status, &a.AdvisorID, &a.StudentID, &a.ProjectID, &a.CreatedAt, &a.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an appointment and sets its ID and timestamps
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	sql, args, err := r.sb.Insert("appointments").
		Columns("title", "date", "time", "location", "notes", "status", "advisor_id", "student_id", "project_id").
		Values(a.Title, a.Date, a.Time, a.Location, a.Notes, a.Status, a.AdvisorID, a.StudentID, a.ProjectID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create appointment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("advisorID", a.AdvisorID).Msg("Error creating appointment")
		return fmt.Errorf("error creating appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*models.Appointment, error) {
	sql, args, err := r.sb.Select(appointmentColumns...).
		From("appointments a").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get appointment query: %w", err)
	}

	a, err := scanAppointment(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("error getting appointment: %w", err)
	}
	return a, nil
}

// List returns one page of appointments matching f, soonest first, and the total match count
func (r *AppointmentRepository) List(ctx context.Context, f AppointmentFilter) ([]*models.Appointment, int, error) {
	q := r.sb.Select(append(appointmentColumns, "COUNT(*) OVER()")...).From("appointments a")

	if f.AdvisorID != nil {
		q = q.Where(squirrel.Eq{"a.advisor_id": *f.AdvisorID})
	}
	if f.VisibleToStudent != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"a.student_id": *f.VisibleToStudent},
			squirrel.Expr("a.project_id IN (SELECT project_id FROM project_students WHERE student_id = ?)", *f.VisibleToStudent),
		})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"a.status": f.Status})
	}
	if f.ProjectID != nil {
		q = q.Where(squirrel.Eq{"a.project_id": *f.ProjectID})
	}
	if f.FromDate != "" {
		q = q.Where(squirrel.GtOrEq{"a.date": f.FromDate})
	}
	if f.ToDate != "" {
		q = q.Where(squirrel.LtOrEq{"a.date": f.ToDate})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	sql, args, err := q.OrderBy("a.date", "a.time", "a.id").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list appointments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing appointments: %w", err)
	}
	defer rows.Close()

	var (
		items []*models.Appointment
		total int
	)
	for rows.Next() {
		a, err := scanAppointment(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning appointment: %w", err)
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

// updateIfStatusQuery guards the write with the status the caller read
func (r *AppointmentRepository) updateIfStatusQuery(a *models.Appointment, expected models.AppointmentStatus) squirrel.UpdateBuilder {
	return r.sb.Update("appointments").
		Set("title", a.Title).
		Set("date", a.Date).
		Set("time", a.Time).
		Set("location", a.Location).
		Set("notes", a.Notes).
		Set("status", a.Status).
		Set("student_id", a.StudentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID, "status": expected}).
		Suffix("RETURNING updated_at")
}

// UpdateIfStatus writes every editable column of a, but only while the stored
// status still equals expected. A row that moved on in the meantime yields a
// conflict; a row that no longer exists yields not found.
func (r *AppointmentRepository) UpdateIfStatus(ctx context.Context, a *models.Appointment, expected models.AppointmentStatus) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.updateIfStatusQuery(a, expected).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update appointment query: %w", err)
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missOrConflict(ctx, tx, a.ID)
		}
		if err != nil {
			return fmt.Errorf("error updating appointment: %w", err)
		}
		return nil
	})
}

func (r *AppointmentRepository) deleteIfStatusQuery(id int64, expected models.AppointmentStatus) squirrel.DeleteBuilder {
	return r.sb.Delete("appointments").Where(squirrel.Eq{"id": id, "status": expected})
}

// DeleteIfStatus removes the appointment while its status still equals expected
func (r *AppointmentRepository) DeleteIfStatus(ctx context.Context, id int64, expected models.AppointmentStatus) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.deleteIfStatusQuery(id, expected).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete appointment query: %w", err)
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting appointment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return r.missOrConflict(ctx, tx, id)
		}
		return nil
	})
}

func (r *AppointmentRepository) missOrConflict(ctx context.Context, q db.Querier, id int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking appointment: %w", err)
	}
	if !exists {
		return apperrors.ErrAppointmentNotFound
	}
	return apperrors.NewConflictError("Appointment was modified by another request; reload and try again")
}

// expirableQuery compares the date first and the time of day only on the cutoff date
func (r *AppointmentRepository) expirableQuery(date, tod string) squirrel.SelectBuilder {
	return r.sb.Select(appointmentColumns...).
		From("appointments a").
		Where(squirrel.Eq{"a.status": []models.AppointmentStatus{
			models.StatusPending, models.StatusPendingStudentConfirmation,
		}}).
		Where(squirrel.Or{
			squirrel.Lt{"a.date": date},
			squirrel.And{squirrel.Eq{"a.date": date}, squirrel.Lt{"a.time": tod}},
		}).
		OrderBy("a.date", "a.time", "a.id")
}

// ListExpirable returns the appointments still awaiting a response whose
// schedule lies strictly before the given local date and time
func (r *AppointmentRepository) ListExpirable(ctx context.Context, date, tod string) ([]*models.Appointment, error) {
	sql, args, err := r.expirableQuery(date, tod).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expirable query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing expirable appointments: %w", err)
	}
	defer rows.Close()

	var items []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
