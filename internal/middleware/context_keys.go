package middleware

import (
	"context"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = contextKey("userID")
	userKey   = contextKey("user")
)

// setAuthenticatedUser records the live snapshot for downstream handlers.
func setAuthenticatedUser(c *gin.Context, user *domain.User) {
	c.Set(string(userIDKey), user.UserID)
	c.Set(string(userKey), user)

	ctx := context.WithValue(c.Request.Context(), userIDKey, user.UserID)
	ctx = context.WithValue(ctx, userKey, user)
	c.Request = c.Request.WithContext(ctx)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetUserFromContext returns the snapshot loaded by the auth middleware.
// Anonymous requests through OptionalAuthMiddleware report false.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	if v, exists := c.Get(string(userKey)); exists {
		user, ok := v.(*domain.User)
		return user, ok && user != nil
	}
	return nil, false
}
