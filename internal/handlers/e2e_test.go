package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/core/services"
	"github.com/SscSPs/fuel_credit_app/internal/dto"
	"github.com/SscSPs/fuel_credit_app/internal/handlers"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"github.com/SscSPs/fuel_credit_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/fuel_credit_app/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

// SessionFlowTestSuite drives the real router, services and SQLite store.
type SessionFlowTestSuite struct {
	suite.Suite
	db     *sql.DB
	cfg    *config.Config
	router *gin.Engine
}

func (s *SessionFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.OpenSQLite(ctx, ":memory:", logger)
	s.Require().NoError(err)
	s.Require().NoError(sqlite.ApplyMigrations(db))
	s.db = db

	s.cfg = &config.Config{
		JWTSecret:                  "e2e-access-secret",
		RefreshTokenSecret:         "e2e-refresh-secret",
		JWTIssuer:                  "fuel-credit-e2e",
		JWTExpiryDuration:          15 * time.Minute,
		RefreshTokenExpiryDuration: 24 * time.Hour,
		AuthRateLimit:              "1000-M",
		CORSAllowedOrigins:         []string{"*"},
	}
	s.buildRouter(logger)
}

func (s *SessionFlowTestSuite) buildRouter(logger *slog.Logger) {
	container, err := services.NewServiceContainer(s.cfg, sqlite.NewRepositoryProvider(s.db), nil)
	s.Require().NoError(err)

	router, err := handlers.NewRouter(s.cfg, container, nil, logger)
	s.Require().NoError(err)
	s.router = router
}

func (s *SessionFlowTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func TestSessionFlowTestSuite(t *testing.T) {
	suite.Run(t, new(SessionFlowTestSuite))
}

func (s *SessionFlowTestSuite) call(method, path string, body any, authHeader string) (int, map[string]any) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func tokensOf(body map[string]any) (string, string) {
	tokens, _ := body["tokens"].(map[string]any)
	access, _ := tokens["accessToken"].(string)
	refresh, _ := tokens["refreshToken"].(string)
	return access, refresh
}

var alice = dto.RegisterRequest{Email: "Alice@Example.com", Password: "secret1", FirstName: "Alice", LastName: "Smith"}

func (s *SessionFlowTestSuite) TestFullSession() {
	code, body := s.call(http.MethodPost, "/api/auth/register", alice, "")
	s.Require().Equal(http.StatusCreated, code, body)
	regAccess, regRefresh := tokensOf(body)
	user := body["user"].(map[string]any)
	s.Equal("alice@example.com", user["email"])
	account := user["fuelAccount"].(map[string]any)
	s.Equal(float64(0), account["balance"])
	s.Equal(float64(1000), account["creditLimit"])
	s.Equal("ACTIVE", account["status"])

	code, body = s.call(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "alice@example.com", Password: "secret1"}, "")
	s.Require().Equal(http.StatusOK, code, body)
	s.Equal("Login successful", body["message"])
	access, refresh := tokensOf(body)
	s.NotEqual(regAccess, access)
	s.NotEqual(regRefresh, refresh)

	code, body = s.call(http.MethodGet, "/api/auth/me", nil, "Bearer "+access)
	s.Require().Equal(http.StatusOK, code, body)
	s.Equal(user["id"], body["user"].(map[string]any)["id"])

	code, body = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refresh}, "")
	s.Require().Equal(http.StatusOK, code, body)
	newAccess, newRefresh := tokensOf(body)
	s.NotEmpty(newAccess)
	s.NotEqual(refresh, newRefresh)

	code, body = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refresh}, "")
	s.Equal(http.StatusForbidden, code)
	s.Equal("Invalid or expired refresh token", body["message"])

	code, _ = s.call(http.MethodPost, "/api/auth/logout", dto.RefreshTokenRequest{RefreshToken: newRefresh}, "Bearer "+newAccess)
	s.Equal(http.StatusOK, code)

	code, body = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: newRefresh}, "")
	s.Equal(http.StatusForbidden, code)
	s.Equal("Invalid or expired refresh token", body["message"])

	// The registration session is independent of the login one.
	code, _ = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: regRefresh}, "")
	s.Equal(http.StatusOK, code)
}

func (s *SessionFlowTestSuite) TestRegisterRejections() {
	code, _ := s.call(http.MethodPost, "/api/auth/register", alice, "")
	s.Require().Equal(http.StatusCreated, code)

	dup := alice
	dup.Email = "  ALICE@example.COM "
	code, body := s.call(http.MethodPost, "/api/auth/register", dup, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("User already exists", body["message"])

	code, body = s.call(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: "bob@example.com", Password: "12345", FirstName: "Bob", LastName: "B"}, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Password must be at least 6 characters", body["message"])

	code, body = s.call(http.MethodPost, "/api/auth/register", dto.RegisterRequest{Email: "bob", Password: "123456", FirstName: "Bob", LastName: "B"}, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Invalid email format", body["message"])

	code, body = s.call(http.MethodPost, "/api/auth/register", map[string]string{"email": "bob@example.com"}, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("All fields are required", body["message"])
}

func (s *SessionFlowTestSuite) TestLoginFailuresAreIndistinguishable() {
	code, _ := s.call(http.MethodPost, "/api/auth/register", alice, "")
	s.Require().Equal(http.StatusCreated, code)

	code, wrongPassword := s.call(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "alice@example.com", Password: "nope123"}, "")
	s.Equal(http.StatusBadRequest, code)
	code, unknownEmail := s.call(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "carol@example.com", Password: "secret1"}, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal(wrongPassword, unknownEmail)
	s.Equal("Invalid credentials", wrongPassword["message"])

	code, body := s.call(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "alice@example.com"}, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Email and password are required", body["message"])
}

func (s *SessionFlowTestSuite) TestAuthenticatorFailures() {
	code, body := s.call(http.MethodGet, "/api/auth/me", nil, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("Access token required", body["message"])

	code, body = s.call(http.MethodGet, "/api/auth/me", nil, "Bearer garbage")
	s.Equal(http.StatusForbidden, code)
	s.Equal("Invalid or expired token", body["message"])

	code, body = s.call(http.MethodPost, "/api/auth/register", alice, "")
	s.Require().Equal(http.StatusCreated, code)
	access, refresh := tokensOf(body)

	// A refresh token is never accepted where an access token is expected.
	code, _ = s.call(http.MethodGet, "/api/auth/me", nil, "Bearer "+refresh)
	s.Equal(http.StatusForbidden, code)

	_, err := s.db.Exec("DELETE FROM users WHERE email = ?", "alice@example.com")
	s.Require().NoError(err)

	code, body = s.call(http.MethodGet, "/api/auth/me", nil, "Bearer "+access)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("User not found", body["message"])

	// The ledger row went with the user.
	code, _ = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refresh}, "")
	s.Equal(http.StatusForbidden, code)
}

func (s *SessionFlowTestSuite) TestListUsers() {
	code, body := s.call(http.MethodPost, "/api/auth/register", alice, "")
	s.Require().Equal(http.StatusCreated, code)
	access, _ := tokensOf(body)

	code, body = s.call(http.MethodGet, "/api/auth/users?limit=10", nil, "Bearer "+access)
	s.Require().Equal(http.StatusOK, code, body)
	users := body["users"].([]any)
	s.Require().Len(users, 1)
	s.Equal("alice@example.com", users[0].(map[string]any)["email"])

	code, body = s.call(http.MethodGet, "/api/auth/users?offset=-1", nil, "Bearer "+access)
	s.Equal(http.StatusBadRequest, code)
	s.NotEmpty(body["message"])
}

func (s *SessionFlowTestSuite) TestAuthRateLimit() {
	s.cfg.AuthRateLimit = "2-M"
	s.buildRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	login := dto.LoginRequest{Email: "alice@example.com", Password: "secret1"}
	for i := 0; i < 2; i++ {
		code, _ := s.call(http.MethodPost, "/api/auth/login", login, "")
		s.Equal(http.StatusBadRequest, code)
	}

	code, body := s.call(http.MethodPost, "/api/auth/login", login, "")
	s.Equal(http.StatusTooManyRequests, code)
	s.Equal("Too many authentication attempts, please try again later.", body["message"])

	// Refresh is not throttled.
	code, _ = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{}, "")
	s.Equal(http.StatusBadRequest, code)
}

func (s *SessionFlowTestSuite) TestGlobalRateLimit() {
	s.cfg.GlobalRateLimit = "3-M"
	s.buildRouter(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < 3; i++ {
		code, _ := s.call(http.MethodGet, "/health", nil, "")
		s.Equal(http.StatusOK, code)
	}

	code, body := s.call(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusTooManyRequests, code)
	s.Equal("Too many requests from this IP", body["message"])

	// The budget is shared by every route.
	code, body = s.call(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{}, "")
	s.Equal(http.StatusTooManyRequests, code)
	s.Equal("Too many requests from this IP", body["message"])
}

func (s *SessionFlowTestSuite) TestRegisterLogsOnce() {
	var logs bytes.Buffer
	s.buildRouter(slog.New(slog.NewTextHandler(&logs, nil)))

	code, body := s.call(http.MethodPost, "/api/auth/register", alice, "")
	s.Require().Equal(http.StatusCreated, code, body)

	s.Equal(1, strings.Count(logs.String(), `msg="User registered"`), logs.String())
}
