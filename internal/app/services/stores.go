package services

import (
	"context"
	"time"

	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/repositories"
)

// The stores below are the persistence contracts of the services. The
// repositories package provides the Postgres implementations.

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.RoleType) ([]*models.User, error)
}

// ProjectStore persists projects and rosters
type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	ListByAdvisor(ctx context.Context, advisorID int64, includeArchived bool) ([]*models.Project, error)
	ListByMember(ctx context.Context, studentID int64, includeArchived bool) ([]*models.Project, error)
	MemberIDs(ctx context.Context, projectID int64) ([]int64, error)
	AddMember(ctx context.Context, projectID, studentID int64) error
	RemoveMember(ctx context.Context, projectID, studentID int64) error
	Archive(ctx context.Context, projectID int64, at time.Time) (*models.ProjectArchive, error)
}

// AppointmentStore persists appointments. UpdateIfStatus and DeleteIfStatus
// only succeed while the stored status equals expected.
type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	GetByID(ctx context.Context, id int64) (*models.Appointment, error)
	List(ctx context.Context, f repositories.AppointmentFilter) ([]*models.Appointment, int, error)
	UpdateIfStatus(ctx context.Context, a *models.Appointment, expected models.AppointmentStatus) error
	DeleteIfStatus(ctx context.Context, id int64, expected models.AppointmentStatus) error
	ListExpirable(ctx context.Context, date, tod string) ([]*models.Appointment, error)
}

// CommentStore persists comments
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*models.Comment, error)
}

// NotificationStore persists notifications
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, offset, limit uint64) ([]*models.Notification, int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

var (
	_ UserStore         = (*repositories.UserRepository)(nil)
	_ ProjectStore      = (*repositories.ProjectRepository)(nil)
	_ AppointmentStore  = (*repositories.AppointmentRepository)(nil)
	_ CommentStore      = (*repositories.CommentRepository)(nil)
	_ NotificationStore = (*repositories.NotificationRepository)(nil)
)
