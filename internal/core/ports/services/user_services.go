package services

import (
	"context"

	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
)

// UserReaderSvc defines read operations on users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
}
