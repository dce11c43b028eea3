package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/controllers"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Project      *controllers.ProjectController
	Appointment  *controllers.AppointmentController
	Comment      *controllers.CommentController
	Notification *controllers.NotificationController
	// NotificationSocket upgrades to the live notification stream
	NotificationSocket gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	advisorOnly := authMiddleware.RoleRequired(models.RoleAdvisor)

	users := authenticated.Group("/users")
	{
		users.GET("/me", ctrl.User.GetProfile)
		users.GET("/advisors", ctrl.User.ListAdvisors)
		users.GET("/students", advisorOnly, ctrl.User.ListStudents)
	}

	projects := authenticated.Group("/projects")
	{
		projects.GET("", ctrl.Project.ListProjects)
		projects.GET("/:id", ctrl.Project.GetProject)
		projects.POST("", advisorOnly, ctrl.Project.CreateProject)
		projects.POST("/:id/members", advisorOnly, ctrl.Project.AddMember)
		projects.DELETE("/:id/members/:studentId", advisorOnly, ctrl.Project.RemoveMember)
		projects.POST("/:id/archive", advisorOnly, ctrl.Project.ArchiveProject)
	}

	appointments := authenticated.Group("/appointments")
	{
		appointments.POST("", ctrl.Appointment.CreateAppointment)
		appointments.GET("", ctrl.Appointment.ListAppointments)
		appointments.GET("/:id", ctrl.Appointment.GetAppointment)
		appointments.PATCH("/:id", ctrl.Appointment.UpdateAppointment)
		appointments.DELETE("/:id", ctrl.Appointment.DeleteAppointment)
		appointments.POST("/:id/transitions", ctrl.Appointment.Transition)
		appointments.GET("/:id/comments", ctrl.Comment.ListComments)
		appointments.POST("/:id/comments", ctrl.Comment.AddComment)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", ctrl.Notification.ListNotifications)
		notifications.GET("/unread-count", ctrl.Notification.UnreadCount)
		notifications.PATCH("/read-all", ctrl.Notification.MarkAllRead)
		notifications.PATCH("/:id/read", ctrl.Notification.MarkRead)
		if ctrl.NotificationSocket != nil {
			notifications.GET("/ws", ctrl.NotificationSocket)
		}
	}
}
