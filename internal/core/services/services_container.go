package services

import (
	"fmt"

	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"github.com/SscSPs/fuel_credit_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. It fails when the token issuer cannot be built.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, analytics *utils.PosthogClientWrapper) (*portssvc.ServiceContainer, error) {
	container := &portssvc.ServiceContainer{}

	tokenService, err := NewTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	container.TokenService = tokenService

	container.User = NewUserService(repos.UserRepo)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)
	container.Auth = NewAuthService(
		repos.UserRepo,
		repos.RefreshTokenRepo,
		container.TokenService,
		WithGoogleOAuth(container.GoogleOAuth),
		WithAnalytics(analytics),
	)

	return container, nil
}
