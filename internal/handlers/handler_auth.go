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

const (
	msgUserCreated     = "User created successfully"
	msgLoginSuccessful = "Login successful"
	msgLogoutSucceeded = "Logout successful"
)

// authHandler serves the /api/auth session endpoints.
type authHandler struct {
	authService portssvc.AuthSvcFacade
}

func newAuthHandler(as portssvc.AuthSvcFacade) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the routes for authentication. Only register
// and login are throttled.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, requireAuth, authLimit gin.HandlerFunc) {
	h := newAuthHandler(services.Auth)

	rg.POST("/register", authLimit, h.register)
	rg.POST("/login", authLimit, h.login)
	rg.POST("/refresh", h.refresh)
	rg.POST("/logout", requireAuth, h.logout)
	rg.GET("/me", requireAuth, h.me)

	google := rg.Group("/google")
	{
		google.POST("", h.loginWithGoogle)
		google.POST("/exchange-code", h.exchangeGoogleCode)
	}
}

// bindBody decodes the JSON body into req. A malformed or missing body is
// treated as an empty one so the service reports the usual field errors.
func bindBody(c *gin.Context, req any) {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Debug("Request body not decoded", slog.String("error", err.Error()))
	}
}

// register godoc
// @Summary Register a new user
// @Description Creates a user with an attached fuel account and starts a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 429 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	bindBody(c, &req)

	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuthResponse(msgUserCreated, res))
}

// login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 429 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	bindBody(c, &req)

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(msgLoginSuccessful, res))
}

// refresh godoc
// @Summary Rotate a refresh token
// @Description Exchanges a live refresh token for a new pair. The presented token stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	bindBody(c, &req)

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{Tokens: dto.ToTokensResponse(*pair)})
}

// logout godoc
// @Summary Log out
// @Description Revokes the given refresh token. The access token stays valid until it expires.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.RefreshTokenRequest false "Refresh token to revoke"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /api/auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("Access token required"))
		return
	}

	var req dto.RefreshTokenRequest
	bindBody(c, &req)

	if err := h.authService.Logout(c.Request.Context(), userID, req.RefreshToken); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgLogoutSucceeded})
}

// me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Security BearerAuth
// @Router /api/auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		middleware.AbortWithError(c, apperrors.NewUnauthorizedError("Access token required"))
		return
	}
	c.JSON(http.StatusOK, dto.ProfileResponse{User: dto.ToUserResponse(user)})
}

// loginWithGoogle godoc
// @Summary Sign in with a Google ID token
// @Tags oauth
// @Accept json
// @Produce json
// @Param google body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/auth/google [post]
func (h *authHandler) loginWithGoogle(c *gin.Context) {
	var req dto.GoogleLoginRequest
	bindBody(c, &req)

	res, err := h.authService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(msgLoginSuccessful, res))
}

// exchangeGoogleCode godoc
// @Summary Sign in with a Google authorization code
// @Description Exchanges the code with Google, validates the returned ID token and starts a session.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/auth/google/exchange-code [post]
func (h *authHandler) exchangeGoogleCode(c *gin.Context) {
	var req dto.ExchangeCodeRequest
	bindBody(c, &req)

	res, err := h.authService.ExchangeGoogleCode(c.Request.Context(), req.Code)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(msgLoginSuccessful, res))
}
