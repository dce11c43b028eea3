package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/middleware"
)

// AppointmentController handles appointment endpoints
type AppointmentController struct {
	appointmentService services.AppointmentService
}

// NewAppointmentController creates a new AppointmentController
func NewAppointmentController(appointmentService services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointmentService: appointmentService}
}

// CreateAppointment godoc
// @Summary Request or schedule an appointment
// @Description Students request a meeting with their advisor, or with a project's advisor when projectId is given.
// @Description Advisors schedule project-wide appointments that any project member may accept.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAppointmentRequest true "Appointment"
// @Success 201 {object} dto.APIResponse{data=dto.AppointmentResponse}
// @Failure 400 {object} dto.APIResponse "Validation error or archived project"
// @Failure 404 {object} dto.APIResponse "Project not found"
// @Router /appointments [post]
func (c *AppointmentController) CreateAppointment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateAppointmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	appointment, err := c.appointmentService.CreateAppointment(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(appointment))
}

// ListAppointments godoc
// @Summary List appointments
// @Description Lists the appointments visible to the caller, newest first
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param projectId query int false "Project filter"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.AppointmentListResponse}
// @Failure 400 {object} dto.APIResponse "Invalid filter"
// @Router /appointments [get]
func (c *AppointmentController) ListAppointments(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var filter dto.AppointmentFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	list, err := c.appointmentService.ListAppointments(ctx.Request.Context(), actor, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// GetAppointment godoc
// @Summary Get an appointment
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AppointmentResponse}
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Router /appointments/{id} [get]
func (c *AppointmentController) GetAppointment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	appointment, err := c.appointmentService.GetAppointment(ctx.Request.Context(), id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(appointment))
}

// UpdateAppointment godoc
// @Summary Update an appointment
// @Description Changing date, time or location sends the appointment back for confirmation by the other side.
// @Description Notes can be changed in any state.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body dto.UpdateAppointmentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.AppointmentResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Not allowed for this role"
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Failure 409 {object} dto.APIResponse "Changed concurrently"
// @Failure 422 {object} dto.APIResponse "Not allowed in the current status"
// @Router /appointments/{id} [patch]
func (c *AppointmentController) UpdateAppointment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateAppointmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	appointment, err := c.appointmentService.UpdateFields(ctx.Request.Context(), id, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(appointment))
}

// Transition godoc
// @Summary Apply a workflow event
// @Description Confirms, rejects, accepts, declines, completes, fails or cancels an appointment, or confirms pending changes.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body dto.TransitionRequest true "Event"
// @Success 200 {object} dto.APIResponse{data=dto.AppointmentResponse}
// @Failure 400 {object} dto.APIResponse "Unknown event"
// @Failure 403 {object} dto.APIResponse "Not allowed for this role"
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Failure 409 {object} dto.APIResponse "Changed concurrently"
// @Failure 422 {object} dto.APIResponse "Not allowed in the current status"
// @Router /appointments/{id}/transitions [post]
func (c *AppointmentController) Transition(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	appointment, err := c.appointmentService.Transition(ctx.Request.Context(), id, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(appointment))
}

// DeleteAppointment godoc
// @Summary Delete an appointment
// @Description Completed, failed, rejected and unanswered appointments are kept as history and cannot be deleted.
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Failure 422 {object} dto.APIResponse "Appointment is history"
// @Router /appointments/{id} [delete]
func (c *AppointmentController) DeleteAppointment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.appointmentService.DeleteAppointment(ctx.Request.Context(), id, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Appointment deleted"}))
}
