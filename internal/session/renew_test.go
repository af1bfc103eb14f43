package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPRenewer_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/User/renew/token", r.URL.Path)
		assert.Equal(t, "Bearer refresh-1", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(renewResponse{AccessToken: "new-access", RefreshToken: "new-refresh"})
	}))
	defer server.Close()

	renew := NewHTTPRenewer(server.URL, zap.NewNop())
	access, refresh, err := renew("refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)
	assert.Equal(t, "new-refresh", refresh)
}

func TestHTTPRenewer_Non200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	renew := NewHTTPRenewer(server.URL, zap.NewNop())
	_, _, err := renew("refresh-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestHTTPRenewer_EmptyTokenIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(renewResponse{})
	}))
	defer server.Close()

	renew := NewHTTPRenewer(server.URL, zap.NewNop())
	_, _, err := renew("refresh-1")
	assert.Error(t, err)
}
