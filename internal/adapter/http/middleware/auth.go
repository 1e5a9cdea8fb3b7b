package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"itemtracker/internal/adapter/http/helper"
	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

// Authenticated resolves the bearer token to an existing user and stores
// the user id under UserIDKey. Lookup failures other than a missing user
// are a 500; everything else is a 401.
func Authenticated(tokens port.TokenIssuer, users port.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")

		if bearer == "" {
			helper.SendUnauthorizedError(c, "Unauthorized request")
			return
		}

		if !strings.HasPrefix(bearer, "Bearer ") {
			helper.SendUnauthorizedError(c, "Invalid authorization format")
			return
		}

		userID, err := tokens.VerifyToken(strings.TrimSpace(bearer[len("Bearer "):]))

		if err != nil {
			helper.SendUnauthorizedError(c, "Invalid or expired token")
			return
		}

		if _, err := users.GetUserByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				helper.SendUnauthorizedError(c, "Unauthorized request")
				return
			}

			_ = c.Error(err)
			helper.SendInternalError(c, "Internal server error")
			return
		}

		GetCurrent(c).UserID = userID

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
