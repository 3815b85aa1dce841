package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fuel_credit_app/internal/core/ports/services"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type userService struct {
	BaseService
	userRepo portsrepo.UserReader
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func NewUserService(userRepo portsrepo.UserReader) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// GetUserByID returns the live snapshot, or an error wrapping apperrors.ErrNotFound.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		return nil, apperrors.NewValidationError("offset must not be negative")
	}

	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
