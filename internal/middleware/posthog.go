package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/fuel_credit_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// untrackedPaths never produce analytics events.
var untrackedPaths = map[string]bool{
	"/":       true,
	"/health": true,
}

// PosthogMiddleware records one event per successful authenticated request,
// named after the matched route ("/api/auth/me" becomes "api_auth_me").
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		posthogClient.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}
