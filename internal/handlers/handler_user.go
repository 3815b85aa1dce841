package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/SscSPs/fuel_credit_app/internal/dto"
	"github.com/SscSPs/fuel_credit_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, requireAuth gin.HandlerFunc) {
	h := newUserHandler(userService)

	rg.GET("/users", requireAuth, h.listUsers)
}

// listUsers godoc
// @Summary List users
// @Description Retrieves a page of public user snapshots
// @Tags users
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /api/auth/users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListUsers", slog.String("error", err.Error()))
		middleware.AbortWithError(c, apperrors.NewValidationError("Invalid query parameters"))
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	logger.Info("Users listed successfully", slog.Int("count", len(users)))
	c.JSON(http.StatusOK, dto.ToListUserResponse(users))
}
