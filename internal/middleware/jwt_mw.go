package middleware

import (
	"strings"

	"restaurant_reviews/internal/apperr"
	"restaurant_reviews/internal/logging"
	"restaurant_reviews/internal/model"
	"restaurant_reviews/internal/repository"
	"restaurant_reviews/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthUserKey holds the authenticated *model.User in the gin context.
const AuthUserKey = "authUser"

// Authenticate attaches the user named by a valid "<scheme> <token>"
// Authorization header. A missing, malformed or expired token, or a token for
// an unknown user, leaves the request anonymous; authorization is decided
// per route by AllowOnly.
func Authenticate(jwtUtil *utils.JWTUtil, users repository.UserRepository, scheme string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearer(c.GetHeader("Authorization"), scheme)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("Ignoring invalid token")
			c.Next()
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			_ = c.Error(apperr.Internal(err))
			c.Abort()
			return
		}
		if user != nil {
			c.Set(AuthUserKey, user)
		}

		c.Next()
	}
}

func bearer(header, scheme string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", false
	}
	return parts[1], true
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	val, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok && user != nil
}
