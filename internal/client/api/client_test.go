package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/fuel_credit_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginDecodesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice@example.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Login successful","user":{"id":"u1","email":"alice@example.com","firstName":"Alice","lastName":"Smith","fuelAccount":{"id":"a1","balance":12.50,"creditLimit":1000.00,"status":"ACTIVE"}},"tokens":{"accessToken":"at","refreshToken":"rt"}}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/").Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, "u1", res.User.ID)
	require.NotNil(t, res.User.FuelAccount)
	assert.Equal(t, "12.5", res.User.FuelAccount.Balance.String())
	assert.Equal(t, "1000.00", res.User.FuelAccount.CreditLimit.StringFixed(2))
	assert.Equal(t, Tokens{AccessToken: "at", RefreshToken: "rt"}, res.Tokens)
}

func TestErrorReplyCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "a@b.co", "x")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestNonJSONErrorReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Profile(context.Background(), "at")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "API request failed", apiErr.Message)
}

func TestProfileSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user":{"id":"u1","email":"alice@example.com","fuelAccount":null}}`))
	}))
	defer srv.Close()

	user, err := New(srv.URL).Profile(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Nil(t, user.FuelAccount)
}

func TestRefreshPostsRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/refresh", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var req dto.RefreshTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rt", req.RefreshToken)
		_, _ = w.Write([]byte(`{"tokens":{"accessToken":"at2","refreshToken":"rt2"}}`))
	}))
	defer srv.Close()

	tokens, err := New(srv.URL).Refresh(context.Background(), "rt")
	require.NoError(t, err)
	assert.Equal(t, Tokens{AccessToken: "at2", RefreshToken: "rt2"}, *tokens)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).Logout(context.Background(), "at", "rt")
	assert.ErrorIs(t, err, ErrNetwork)
}
