// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/auth"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes a
// 400 response and returns false.
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+paramName).WithField(paramName)
		ctx.JSON(http.StatusBadRequest, dto.NewAPIErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentActor returns the authenticated caller, writing a 401 when missing
func currentActor(ctx *gin.Context) (workflow.Actor, bool) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return workflow.Actor{}, false
	}
	return actor, true
}
