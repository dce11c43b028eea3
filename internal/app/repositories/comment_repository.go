package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/advisorly/internal/app/models"
)

// CommentRepository handles appointment comments
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a comment and sets its ID and creation time
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	sql, args, err := r.sb.Insert("comments").
		Columns("appointment_id", "author_id", "content").
		Values(c.AppointmentID, c.AuthorID, c.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}
	return nil
}

// ListByAppointment returns the comments of an appointment, oldest first, with author details
func (r *CommentRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*models.Comment, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.appointment_id", "c.author_id", "u.first_name || ' ' || u.last_name", "u.role_type",
		"c.content", "c.created_at").
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.appointment_id": appointmentID}).
		OrderBy("c.created_at", "c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.AppointmentID, &c.AuthorID, &c.AuthorName, &c.AuthorRole,
			&c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
