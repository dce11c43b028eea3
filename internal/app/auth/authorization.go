package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/workflow"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
)

// Keys under which the authentication middleware stores the caller
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
)

// ErrNoActor is returned when a request reached a handler without authentication
var ErrNoActor = apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Authentication required")

// SetActor records the authenticated caller on the request context
func SetActor(c *gin.Context, userID int64, email string, role models.RoleType) {
	c.Set(ContextUserID, userID)
	c.Set(ContextEmail, email)
	c.Set(ContextRoleType, string(role))
}

// ActorFromContext returns the authenticated caller of the request
func ActorFromContext(c *gin.Context) (workflow.Actor, error) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return workflow.Actor{}, ErrNoActor
	}
	userID, ok := id.(int64)
	if !ok {
		return workflow.Actor{}, ErrNoActor
	}

	role := models.RoleType(c.GetString(ContextRoleType))
	if !role.IsValid() {
		return workflow.Actor{}, ErrNoActor
	}
	return workflow.Actor{ID: userID, Role: role}, nil
}

// HasRole reports whether role is one of allowed
func HasRole(role models.RoleType, allowed ...models.RoleType) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
