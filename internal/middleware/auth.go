package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

const (
	msgAccessTokenRequired = "Access token required"
	msgInvalidAccessToken  = "Invalid or expired token"
	msgUserNotFound        = "User not found"
)

// AbortWithError writes the {"message": ...} error body. Internal errors are
// logged with their cause; the caller only ever sees the generic message.
func AbortWithError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.Code >= 500 {
		GetLoggerFromContext(c).Error("Request failed", slog.String("error", err.Error()))
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"message": appErr.Message})
}

// bearerToken returns the credential after the scheme word, or "".
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// authenticate resolves the bearer token to a live user snapshot.
func authenticate(c *gin.Context, tokenSvc portssvc.TokenSvcFacade, userSvc portssvc.UserReaderSvc) (*domain.User, error) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		return nil, apperrors.NewUnauthorizedError(msgAccessTokenRequired)
	}

	userID, err := tokenSvc.Verify(token, domain.AccessTokenKind)
	if err != nil {
		return nil, apperrors.NewInvalidTokenError(msgInvalidAccessToken)
	}

	user, err := userSvc.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgUserNotFound)
		}
		return nil, apperrors.NewInternalServerError(err)
	}
	return user, nil
}

// AuthMiddleware requires a valid access token for a user that still exists.
// The snapshot is re-read from the store on every request so a deleted user
// is locked out even while their token is unexpired.
func AuthMiddleware(tokenSvc portssvc.TokenSvcFacade, userSvc portssvc.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)

		user, err := authenticate(c, tokenSvc, userSvc)
		if err != nil {
			logger.Info("Authentication failed", slog.String("reason", apperrors.AsAppError(err).Message))
			AbortWithError(c, err)
			return
		}

		setAuthenticatedUser(c, user)
		setLogger(c, logger.With(slog.String("user_id", user.UserID)))
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(tokenSvc portssvc.TokenSvcFacade, userSvc portssvc.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authenticate(c, tokenSvc, userSvc)
		if err == nil {
			setAuthenticatedUser(c, user)
			setLogger(c, GetLoggerFromContext(c).With(slog.String("user_id", user.UserID)))
		}
		c.Next()
	}
}
