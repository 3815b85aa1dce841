//go:build integration

package pgsql

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/apperrors"
	"github.com/SscSPs/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_credit_app/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PgsqlRepositorySuite struct {
	suite.Suite
	container testcontainers.Container
	pool      *pgxpool.Pool
	repos     portsrepo.RepositoryProvider
	ctx       context.Context
}

// setupPostgres starts a throwaway postgres and returns its connection URL.
func setupPostgres(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "fuel",
			"POSTGRES_PASSWORD": "fuel",
			"POSTGRES_DB":       "fuel",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return container, fmt.Sprintf("postgres://fuel:fuel@%s:%s/fuel?sslmode=disable", host, mappedPort.Port())
}

func (s *PgsqlRepositorySuite) SetupSuite() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, url := setupPostgres(s.T(), s.ctx)
	s.container = container

	s.Require().NoError(ApplyMigrations(url, logger))

	pool, err := database.NewPgxPool(s.ctx, url, logger)
	s.Require().NoError(err)
	s.pool = pool
	s.repos = NewRepositoryProvider(pool)
}

func (s *PgsqlRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		if err := s.container.Terminate(s.ctx); err != nil {
			s.T().Logf("failed to terminate container: %v", err)
		}
	}
}

func (s *PgsqlRepositorySuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE users CASCADE`)
	s.Require().NoError(err)
}

func TestPgsqlRepositorySuite(t *testing.T) {
	suite.Run(t, new(PgsqlRepositorySuite))
}

func (s *PgsqlRepositorySuite) newUser(email string) (domain.User, domain.FuelAccount) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	hash := "$2a$12$hash"
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: &hash,
		FirstName:    "Alice",
		LastName:     "Driver",
		AuthProvider: domain.ProviderLocal,
		AuditFields:  domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	account := domain.NewFuelAccount(uuid.NewString(), user.UserID)
	account.CreatedAt = now
	account.UpdatedAt = now
	return user, account
}

func (s *PgsqlRepositorySuite) TestCreateAndFind() {
	user, account := s.newUser("alice@x.io")
	s.Require().NoError(s.repos.UserRepo.CreateUserWithFuelAccount(s.ctx, user, account))

	found, err := s.repos.UserRepo.FindUserByEmail(s.ctx, "Alice@X.io")
	s.Require().NoError(err)
	s.Equal(user.UserID, found.UserID)
	s.Require().NotNil(found.FuelAccount)
	s.Equal("0.00", found.FuelAccount.Balance.StringFixed(2))
	s.Equal("1000.00", found.FuelAccount.CreditLimit.StringFixed(2))

	_, err = s.repos.UserRepo.FindUserByID(s.ctx, "not-a-uuid")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PgsqlRepositorySuite) TestDuplicateEmailRollsBack() {
	first, firstAcc := s.newUser("alice@x.io")
	s.Require().NoError(s.repos.UserRepo.CreateUserWithFuelAccount(s.ctx, first, firstAcc))

	dup, dupAcc := s.newUser("alice@x.io")
	s.ErrorIs(s.repos.UserRepo.CreateUserWithFuelAccount(s.ctx, dup, dupAcc), apperrors.ErrDuplicate)

	var accounts int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT COUNT(*) FROM fuel_accounts`).Scan(&accounts))
	s.Equal(1, accounts)
}

func (s *PgsqlRepositorySuite) TestRotateIsConditional() {
	user, account := s.newUser("bob@x.io")
	s.Require().NoError(s.repos.UserRepo.CreateUserWithFuelAccount(s.ctx, user, account))

	now := time.Now().UTC()
	s.Require().NoError(s.repos.RefreshTokenRepo.Create(s.ctx, domain.RefreshToken{
		UserID: user.UserID, TokenHash: "h1", ExpiresAt: now.Add(time.Hour),
		AuditFields: domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}))
	row, err := s.repos.RefreshTokenRepo.FindByHash(s.ctx, "h1")
	s.Require().NoError(err)

	s.Require().NoError(s.repos.RefreshTokenRepo.Rotate(s.ctx, row.ID, "h1", "h2", now.Add(2*time.Hour)))
	s.ErrorIs(s.repos.RefreshTokenRepo.Rotate(s.ctx, row.ID, "h1", "h3", now.Add(2*time.Hour)), apperrors.ErrNotFound)

	n, err := s.repos.RefreshTokenRepo.DeleteExpired(s.ctx, now.Add(3*time.Hour))
	s.Require().NoError(err)
	s.EqualValues(1, n)
}
