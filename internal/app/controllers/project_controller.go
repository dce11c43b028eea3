package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/middleware"
)

// ProjectController handles project and roster endpoints
type ProjectController struct {
	projectService services.ProjectService
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// CreateProject godoc
// @Summary Create a project
// @Description Creates a project owned by the signed-in advisor, optionally with an initial roster
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProjectRequest true "Project"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 403 {object} dto.APIResponse "Advisors only"
// @Router /projects [post]
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.CreateProject(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(project))
}

// ListProjects godoc
// @Summary List projects
// @Description Advisors see the projects they own, students the projects they belong to
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param includeArchived query bool false "Include archived projects"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProjectResponse}
// @Router /projects [get]
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var filter dto.ProjectFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	projects, err := c.projectService.ListProjects(ctx.Request.Context(), actor, filter.IncludeArchived)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(projects))
}

// GetProject godoc
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 404 {object} dto.APIResponse "Project not found"
// @Router /projects/{id} [get]
func (c *ProjectController) GetProject(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	project, err := c.projectService.GetProject(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project))
}

// AddMember godoc
// @Summary Add a student to a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.AddMemberRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse}
// @Failure 400 {object} dto.APIResponse "Not a student or project archived"
// @Failure 404 {object} dto.APIResponse "Project not found"
// @Failure 409 {object} dto.APIResponse "Already a member"
// @Router /projects/{id}/members [post]
func (c *ProjectController) AddMember(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.AddMember(ctx.Request.Context(), actor, id, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(project))
}

// RemoveMember godoc
// @Summary Remove a student from a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.APIResponse "Project or member not found"
// @Router /projects/{id}/members/{studentId} [delete]
func (c *ProjectController) RemoveMember(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.projectService.RemoveMember(ctx.Request.Context(), actor, id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Member removed"}))
}

// ArchiveProject godoc
// @Summary Archive a project
// @Description Marks the project archived and stores a snapshot of it. Archived projects accept no new appointments.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=models.ProjectArchive}
// @Failure 404 {object} dto.APIResponse "Project not found"
// @Failure 409 {object} dto.APIResponse "Already archived"
// @Router /projects/{id}/archive [post]
func (c *ProjectController) ArchiveProject(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	archive, err := c.projectService.ArchiveProject(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(archive))
}
