package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-service/internal/apperrors"
	"user-service/internal/entities"
	"user-service/internal/models"
)

// AbortWithError renders err as an ErrorItem and stops the handler chain.
// Anything that is not an *apperrors.Error becomes a generic 500.
func AbortWithError(c *gin.Context, err error) {
	path := c.Request.URL.Path

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			models.NewErrorItem(http.StatusInternalServerError, "Internal server error", path))
		return
	}

	status := appErr.Kind.Status()
	body := models.NewErrorItem(status, appErr.Message, path)
	body.FieldErrors = appErr.FieldErrors
	c.AbortWithStatusJSON(status, body)
}

// RequireAuthenticated rejects requests that carry no principal with 401
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c.Request.Context()); !ok {
			AbortWithError(c, apperrors.Unauthenticated("Authentication is required"))
			return
		}
		c.Next()
	}
}

// RequireRole rejects unauthenticated requests with 401 and principals lacking the role with 403
func RequireRole(role entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c.Request.Context())
		if !ok {
			AbortWithError(c, apperrors.Unauthenticated("Authentication is required"))
			return
		}
		if !principal.HasAuthority(role.Authority()) {
			AbortWithError(c, apperrors.Forbidden("Access denied"))
			return
		}
		c.Next()
	}
}

// InternalCallOnly rejects requests without X-Internal-Call: true with 403
func InternalCallOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(HeaderInternalCall) != "true" {
			AbortWithError(c, apperrors.Forbidden("Internal endpoint"))
			return
		}
		c.Next()
	}
}
