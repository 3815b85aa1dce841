// Package api is the HTTP client for the /api/auth contract, as used by the
// mobile app and the terminal client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/fuel_credit_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ErrNetwork wraps every failure to reach the server or read its reply.
var ErrNetwork = errors.New("network error")

const defaultTimeout = 15 * time.Second

// Error is a non-2xx reply. Message is the server's {"message"} text.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// FuelAccount is display-only; the client never computes with these values.
type FuelAccount struct {
	ID          string          `json:"id"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Status      string          `json:"status"`
}

// User is the server's public user snapshot.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	FuelAccount *FuelAccount `json:"fuelAccount"`
}

// Tokens is an access/refresh pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Tokens  Tokens `json:"tokens"`
}

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the server at baseURL, e.g. "http://192.168.0.4:3000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account. The returned tokens are valid but the
// session manager does not keep them.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the current user for accessToken.
func (c *Client) Profile(ctx context.Context, accessToken string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Refresh rotates refreshToken into a new pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	var out struct {
		Tokens Tokens `json:"tokens"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", dto.RefreshTokenRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}
	return &out.Tokens, nil
}

// Logout revokes refreshToken on the server.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", accessToken, dto.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg dto.MessageResponse
		if json.Unmarshal(raw, &msg) != nil || msg.Message == "" {
			msg.Message = "API request failed"
		}
		return &Error{Status: resp.StatusCode, Message: msg.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrNetwork, err)
	}
	return nil
}
