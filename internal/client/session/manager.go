// Package session bootstraps and tears down the client's authenticated
// identity on top of the HTTP contract and a SecureStore.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/SscSPs/fuel_credit_app/internal/client/api"
	"github.com/SscSPs/fuel_credit_app/internal/client/storage"
	"github.com/SscSPs/fuel_credit_app/internal/dto"
)

// Storage keys. All three are written and cleared together.
const (
	KeyAccessToken  = "fuel_credit_access_token"
	KeyRefreshToken = "fuel_credit_refresh_token"
	KeyUserData     = "fuel_credit_user_data"
)

const (
	msgBadCredentials = "Email or password is incorrect. Please check your credentials and try again."
	msgNetwork        = "Network error. Please check your connection."
	msgUnexpected     = "An unexpected error occurred"
)

// ErrOperationInProgress is returned when another auth operation on the
// same Manager has not finished yet.
var ErrOperationInProgress = errors.New("another authentication operation is in progress")

// AuthAPI is the slice of the server contract the manager needs.
type AuthAPI interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Profile(ctx context.Context, accessToken string) (*api.User, error)
	Refresh(ctx context.Context, refreshToken string) (*api.Tokens, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// Error is what callers show to the user. Err keeps the underlying cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Manager owns one client session. The zero value is not usable; use New.
type Manager struct {
	api    AuthAPI
	store  storage.SecureStore
	logger *slog.Logger

	busy atomic.Bool

	mu   sync.RWMutex
	user *api.User
}

// New builds a manager. A nil logger falls back to slog.Default.
func New(client AuthAPI, store storage.SecureStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{api: client, store: store, logger: logger}
}

// begin claims the single in-flight slot.
func (m *Manager) begin() (func(), error) {
	if !m.busy.CompareAndSwap(false, true) {
		return nil, ErrOperationInProgress
	}
	return func() { m.busy.Store(false) }, nil
}

func (m *Manager) setUser(u *api.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

// CurrentUser returns a copy of the cached snapshot, or nil when anonymous.
func (m *Manager) CurrentUser() *api.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	if u.FuelAccount != nil {
		acc := *u.FuelAccount
		u.FuelAccount = &acc
	}
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// Init restores a stored session. A cached snapshot is trusted only until
// the profile call answers. An expired access token gets one refresh attempt;
// any other failure wipes local state.
func (m *Manager) Init(ctx context.Context) error {
	done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	rawUser, hasUser, err := m.store.Get(KeyUserData)
	if err != nil {
		return m.resetAfter(err)
	}
	accessToken, hasToken, err := m.store.Get(KeyAccessToken)
	if err != nil {
		return m.resetAfter(err)
	}
	if !hasUser || !hasToken || accessToken == "" {
		m.setUser(nil)
		return nil
	}

	var cached api.User
	if err := json.Unmarshal([]byte(rawUser), &cached); err != nil {
		m.logger.Warn("Cached user snapshot unreadable, clearing session", slog.String("error", err.Error()))
		return m.resetAfter(nil)
	}
	m.setUser(&cached)

	if err := m.refreshUserData(ctx, accessToken); err != nil {
		m.logger.Info("Stored session rejected, signed out", slog.String("error", err.Error()))
	}
	return nil
}

// Login authenticates and persists the new session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		return friendlyError(err)
	}

	if err := m.persist(res); err != nil {
		m.logger.Error("Failed to store session", slog.String("error", err.Error()))
		_ = m.clear()
		return &Error{Message: msgUnexpected, Err: err}
	}
	m.setUser(&res.User)
	return nil
}

// Register creates the account only; the user signs in separately.
func (m *Manager) Register(ctx context.Context, req dto.RegisterRequest) error {
	done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	if _, err := m.api.Register(ctx, req); err != nil {
		return friendlyError(err)
	}
	return nil
}

// Logout tells the server when it can and always forgets the session locally.
func (m *Manager) Logout(ctx context.Context) error {
	done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	accessToken, _, aerr := m.store.Get(KeyAccessToken)
	refreshToken, _, rerr := m.store.Get(KeyRefreshToken)
	if aerr == nil && rerr == nil && accessToken != "" && refreshToken != "" {
		if err := m.api.Logout(ctx, accessToken, refreshToken); err != nil {
			m.logger.Warn("Server logout failed, clearing local session anyway", slog.String("error", err.Error()))
		}
	}

	m.setUser(nil)
	return m.clear()
}

// RefreshUserData re-reads the profile. A rejected token signs the user out.
func (m *Manager) RefreshUserData(ctx context.Context) error {
	done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	accessToken, ok, err := m.store.Get(KeyAccessToken)
	if err != nil {
		return m.resetAfter(err)
	}
	if !ok || accessToken == "" {
		return nil
	}
	return m.refreshUserData(ctx, accessToken)
}

// Teardown forgets the in-memory identity and leaves storage alone, so the
// next Init can restore it.
func (m *Manager) Teardown() {
	m.setUser(nil)
}

func (m *Manager) refreshUserData(ctx context.Context, accessToken string) error {
	user, err := m.api.Profile(ctx, accessToken)
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		// The cached identity is not trusted while the tokens are renewed.
		m.setUser(nil)
		renewed, rerr := m.renewTokens(ctx)
		if rerr != nil {
			m.logger.Debug("Token refresh failed", slog.String("error", rerr.Error()))
		} else {
			user, err = m.api.Profile(ctx, renewed)
		}
	}
	if err != nil {
		_ = m.resetAfter(nil)
		return friendlyError(err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return m.resetAfter(err)
	}
	if err := m.store.Set(KeyUserData, string(raw)); err != nil {
		return m.resetAfter(err)
	}
	m.setUser(user)
	return nil
}

// renewTokens rotates the stored refresh token and returns the new access token.
func (m *Manager) renewTokens(ctx context.Context) (string, error) {
	refreshToken, ok, err := m.store.Get(KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if !ok || refreshToken == "" {
		return "", errors.New("no refresh token stored")
	}
	tokens, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if err := m.store.Set(KeyAccessToken, tokens.AccessToken); err != nil {
		return "", err
	}
	if err := m.store.Set(KeyRefreshToken, tokens.RefreshToken); err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

func (m *Manager) persist(res *api.AuthResponse) error {
	raw, err := json.Marshal(res.User)
	if err != nil {
		return err
	}
	if err := m.store.Set(KeyAccessToken, res.Tokens.AccessToken); err != nil {
		return err
	}
	if err := m.store.Set(KeyRefreshToken, res.Tokens.RefreshToken); err != nil {
		return err
	}
	return m.store.Set(KeyUserData, string(raw))
}

func (m *Manager) clear() error {
	return m.store.Delete(KeyAccessToken, KeyRefreshToken, KeyUserData)
}

// resetAfter drops every trace of the session and returns cause, if any.
func (m *Manager) resetAfter(cause error) error {
	m.setUser(nil)
	if err := m.clear(); err != nil {
		m.logger.Error("Failed to clear session storage", slog.String("error", err.Error()))
		if cause == nil {
			cause = err
		}
	}
	if cause == nil {
		return nil
	}
	return &Error{Message: msgUnexpected, Err: cause}
}

// friendlyError turns a contract failure into text fit for the login screen.
func friendlyError(err error) error {
	if errors.Is(err, api.ErrNetwork) {
		return &Error{Message: msgNetwork, Err: err}
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if strings.Contains(msg, "Invalid credentials") {
			msg = msgBadCredentials
		}
		return &Error{Message: msg, Err: err}
	}
	return &Error{Message: msgUnexpected, Err: err}
}
