package middleware

import (
	"context"
	"strings"

	"blogadmin/internal/apperr"
	"blogadmin/internal/models"
	"blogadmin/internal/services"

	"github.com/gin-gonic/gin"
)

const CurrentUserKey = "user"

// TokenValidator turns a bearer token into a live user.
type TokenValidator interface {
	ParseToken(raw string) (*services.Claims, error)
	ValidateUser(ctx context.Context, claims *services.Claims) (*models.User, error)
}

// Authenticate requires a valid bearer token whose user still exists and
// stores that user under CurrentUserKey.
func Authenticate(auth TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abort(c, apperr.Unauthorized("missing bearer token", nil))
			return
		}

		claims, err := auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			abort(c, err)
			return
		}
		user, err := auth.ValidateUser(c.Request.Context(), claims)
		if err != nil {
			// Deleted users keep valid signatures; their tokens are stale.
			abort(c, apperr.Unauthorized("user no longer exists", err))
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole rejects users whose role differs from role. An empty role
// lets every authenticated user through.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role == "" {
			c.Next()
			return
		}
		user := CurrentUser(c)
		if user == nil || user.Role != role {
			abort(c, apperr.Forbidden("Forbidden resource"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, nil on public routes.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func abort(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.AbortWithStatusJSON(kind.Status(), gin.H{
		"statusCode": kind.Status(),
		"message":    apperr.Message(err),
	})
}
