package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	ProjectRepository      *ProjectRepository
	AppointmentRepository  *AppointmentRepository
	CommentRepository      *CommentRepository
	NotificationRepository *NotificationRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		ProjectRepository:      NewProjectRepository(db),
		AppointmentRepository:  NewAppointmentRepository(db),
		CommentRepository:      NewCommentRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
