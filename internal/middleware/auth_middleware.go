package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/advisorly/internal/app/auth"
	"github.com/yigit/advisorly/internal/app/models"
	"github.com/yigit/advisorly/internal/app/models/dto"
	"github.com/yigit/advisorly/internal/pkg/apperrors"
	"github.com/yigit/advisorly/internal/pkg/auth"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewAPIErrorResponse(errorDetail))
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		var tokenString string
		switch {
		case authHeader != "":
			token, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
			if err != nil {
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
				return
			}
			tokenString = token
		case c.Query("token") != "":
			// browsers cannot set headers on websocket upgrades
			tokenString = c.Query("token")
		default:
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			abortUnauthorized(c, code, details)
			return
		}
		if !claims.Role().IsValid() {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Unknown role")
			return
		}

		appauth.SetActor(c, claims.UserID, claims.Email, claims.Role())
		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the required roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := appauth.ActorFromContext(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}

		if !appauth.HasRole(actor.Role, roles...) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewAPIErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
