package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/services"
	"github.com/yigit/advisorly/internal/middleware"
)

// UserController handles user-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetProfile godoc
// @Summary Get current user profile
// @Description Returns the profile of the signed-in user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetUserProfile(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUser(user)))
}

// ListAdvisors godoc
// @Summary List advisors
// @Description Lists every advisor, for students picking who to meet
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /users/advisors [get]
func (c *UserController) ListAdvisors(ctx *gin.Context) {
	c.listByRole(ctx, models.RoleAdvisor)
}

// ListStudents godoc
// @Summary List students
// @Description Lists every student, for advisors building project rosters
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Advisors only"
// @Router /users/students [get]
func (c *UserController) ListStudents(ctx *gin.Context) {
	c.listByRole(ctx, models.RoleStudent)
}

func (c *UserController) listByRole(ctx *gin.Context, role models.RoleType) {
	users, err := c.userService.ListByRole(ctx.Request.Context(), role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromUsers(users)))
}
