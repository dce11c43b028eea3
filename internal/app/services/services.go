package services

import (
	"time"

	"github.com/yigit/advisorly/internal/app/repositories"
	"github.com/yigit/advisorly/internal/pkg/logger"
)

// Services groups the application services
type Services struct {
	Auth         *AuthService
	User         UserService
	Project      ProjectService
	Appointment  AppointmentService
	Comment      CommentService
	Notification NotificationService
}

// NewServices wires the services over the repositories. pusher may be nil.
func NewServices(repos *repositories.Repositories, tokens TokenIssuer, pusher Pusher, loc *time.Location) *Services {
	notifications := NewNotificationService(repos.NotificationRepository, pusher, logger.Component("notification_service"))

	return &Services{
		Auth:    NewAuthService(repos.UserRepository, tokens, logger.Component("auth_service")),
		User:    NewUserService(repos.UserRepository, logger.Component("user_service")),
		Project: NewProjectService(repos.ProjectRepository, repos.UserRepository, logger.Component("project_service")),
		Appointment: NewAppointmentService(
			repos.AppointmentRepository,
			repos.ProjectRepository,
			repos.UserRepository,
			notifications,
			loc,
			logger.Component("appointment_service"),
		),
		Comment: NewCommentService(
			repos.CommentRepository,
			repos.AppointmentRepository,
			repos.ProjectRepository,
			repos.UserRepository,
			notifications,
			logger.Component("comment_service"),
		),
		Notification: notifications,
	}
}
