package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/middleware"
)

// CommentController handles appointment comments
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// AddComment godoc
// @Summary Comment on an appointment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.APIResponse "Empty or too long"
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Router /appointments/{id}/comments [post]
func (c *CommentController) AddComment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	comment, err := c.commentService.AddComment(ctx.Request.Context(), id, actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment))
}

// ListComments godoc
// @Summary List the comments of an appointment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CommentResponse}
// @Failure 404 {object} dto.APIResponse "Appointment not found"
// @Router /appointments/{id}/comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListComments(ctx.Request.Context(), id, actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments))
}
