package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/middleware"
)

// NotificationController handles the notification inbox
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications godoc
// @Summary List notifications
// @Description Lists the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse}
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var filter dto.NotificationFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	list, err := c.notificationService.ListNotifications(ctx.Request.Context(), actor.ID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse}
// @Router /notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	count, err := c.notificationService.UnreadCount(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Count: count}))
}

// MarkRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse "Notification not found"
// @Router /notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), actor.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Notification marked as read"}))
}

// MarkAllRead godoc
// @Summary Mark every notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Number of notifications marked"
// @Router /notifications/read-all [patch]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	marked, err := c.notificationService.MarkAllRead(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UnreadCountResponse{Count: int(marked)}))
}
