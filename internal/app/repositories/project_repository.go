package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/db"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/dberrors"
	"github.com/yigit/advisorly/internal/pkg/logger"
)

var projectColumns = []string{
	"p.id", "p.name", "p.description", "p.advisor_id", "p.archived_at", "p.created_at", "p.updated_at",
	"COALESCE((SELECT array_agg(ps.student_id ORDER BY ps.student_id) FROM project_students ps WHERE ps.project_id = p.id), '{}')",
}

const archiveSnapshotSQL = `
	INSERT INTO project_archive (project_id, name, description, advisor_id, member_ids, archived_at)
	SELECT $1, $2, $3, $4, COALESCE(array_agg(student_id ORDER BY student_id), '{}'), $5
	FROM project_students
	WHERE project_id = $1
	RETURNING id, member_ids, archived_at`

// ProjectRepository handles projects and their rosters
type ProjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.AdvisorID, &p.ArchivedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.MemberIDs)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a project together with its initial roster
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("projects").
			Columns("name", "description", "advisor_id").
			Values(project.Name, project.Description, project.AdvisorID).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create project query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return fmt.Errorf("error creating project: %w", err)
		}

		for _, studentID := range project.MemberIDs {
			if err := r.insertMember(ctx, tx, project.ID, studentID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a project with its roster
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	sql, args, err := r.sb.Select(projectColumns...).
		From("projects p").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get project query: %w", err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}
	return p, nil
}

// ListByAdvisor returns the projects owned by advisorID
func (r *ProjectRepository) ListByAdvisor(ctx context.Context, advisorID int64, includeArchived bool) ([]*models.Project, error) {
	q := r.sb.Select(projectColumns...).From("projects p").Where(squirrel.Eq{"p.advisor_id": advisorID})
	return r.list(ctx, q, includeArchived)
}

// ListByMember returns the projects whose roster contains studentID
func (r *ProjectRepository) ListByMember(ctx context.Context, studentID int64, includeArchived bool) ([]*models.Project, error) {
	q := r.sb.Select(projectColumns...).
		From("projects p").
		Join("project_students m ON m.project_id = p.id").
		Where(squirrel.Eq{"m.student_id": studentID})
	return r.list(ctx, q, includeArchived)
}

func (r *ProjectRepository) list(ctx context.Context, q squirrel.SelectBuilder, includeArchived bool) ([]*models.Project, error) {
	if !includeArchived {
		q = q.Where("p.archived_at IS NULL")
	}
	sql, args, err := q.OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list projects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// MemberIDs returns the roster of a project
func (r *ProjectRepository) MemberIDs(ctx context.Context, projectID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("student_id").
		From("project_students").
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("student_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build roster query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error reading roster: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning roster: %w", err)
	}
	return ids, nil
}

// AddMember puts a student on the roster
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, studentID int64) error {
	return r.insertMember(ctx, r.db, projectID, studentID)
}

func (r *ProjectRepository) insertMember(ctx context.Context, q db.Querier, projectID, studentID int64) error {
	sql, args, err := r.sb.Insert("project_students").
		Columns("project_id", "student_id").
		Values(projectID, studentID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add member query: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "Student is already a member of this project")
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("Student not found")
		}
		return fmt.Errorf("error adding project member: %w", err)
	}
	return nil
}

// RemoveMember takes a student off the roster
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, studentID int64) error {
	sql, args, err := r.sb.Delete("project_students").
		Where(squirrel.Eq{"project_id": projectID, "student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove member query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing project member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Student is not a member of this project")
	}
	return nil
}

// Archive marks the project archived and stores a snapshot of it in
// project_archive. Archiving an archived project is a conflict.
func (r *ProjectRepository) Archive(ctx context.Context, projectID int64, at time.Time) (*models.ProjectArchive, error) {
	var snapshot models.ProjectArchive
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Update("projects").
			Set("archived_at", at).
			Set("updated_at", at).
			Where(squirrel.Eq{"id": projectID}).
			Where("archived_at IS NULL").
			Suffix("RETURNING id, name, description, advisor_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build archive query: %w", err)
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&snapshot.ProjectID, &snapshot.Name, &snapshot.Description, &snapshot.AdvisorID)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewConflictError("Project is already archived")
		}
		if err != nil {
			return fmt.Errorf("error archiving project: %w", err)
		}

		return tx.QueryRow(ctx, archiveSnapshotSQL,
			snapshot.ProjectID, snapshot.Name, snapshot.Description, snapshot.AdvisorID, at,
		).Scan(&snapshot.ID, &snapshot.MemberIDs, &snapshot.ArchivedAt)
	})
	if err != nil {
		logger.Debug().Err(err).Int64("projectID", projectID).Msg("Archive project failed")
		return nil, err
	}
	return &snapshot, nil
}
