package middleware

import (
	"net/http"

	"restaurant_reviews/internal/access"
	"restaurant_reviews/internal/apperr"
	"restaurant_reviews/internal/model"

	"github.com/gin-gonic/gin"
)

// AllowOnly lets the request through when the caller's role is part of level.
// Guest-level routes are open to everyone, identified or not.
func AllowOnly(level model.AccessLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, identified := CurrentUser(c)
		role := model.RoleGuest
		if identified {
			role = user.Role
		}

		if !access.IsAuthorized(level, role, identified) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": apperr.ForbiddenMessage})
			return
		}

		c.Next()
	}
}

// AdminOnly allows admins.
func AdminOnly() gin.HandlerFunc {
	return AllowOnly(model.AccessAdmin)
}

// UserOnly allows users and admins.
func UserOnly() gin.HandlerFunc {
	return AllowOnly(model.AccessUser)
}

// Public allows everyone.
func Public() gin.HandlerFunc {
	return AllowOnly(model.AccessGuest)
}
