package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ct "itemtracker/pkg/context"
)

const (
	RequestIDHeader = "X-Request-ID"
	UserIDKey       = "x-user-id"
	currentKey      = "current"
)

// CurrentMiddleware stores the request facts on both the gin and the
// request context so services and loggers can read them.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" {
			requestID = uuid.NewString()
		}

		current := &ct.Current{
			RequestID: requestID,
			ClientIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
		}

		c.Header(RequestIDHeader, requestID)
		c.Set(currentKey, current)
		c.Request = c.Request.WithContext(ct.WithCurrent(c.Request.Context(), current))

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get(currentKey); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}

// CurrentUserID returns the id stored by Authenticated.
func CurrentUserID(c *gin.Context) (int, bool) {
	value, ok := c.Get(UserIDKey)

	if !ok {
		return 0, false
	}

	id, ok := value.(int)

	return id, ok
}
