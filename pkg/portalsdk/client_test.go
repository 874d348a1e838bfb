package portalsdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientLoginSendsJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "jdoe", req.Identifier)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(LoginResponse{AccessToken: "tok", TokenType: "Bearer"})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL + "/").Login(t.Context(), "jdoe", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok", resp.AccessToken)
}

func TestClientWithTokenSetsBearer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	anon := NewClient(srv.URL)
	require.NoError(t, anon.WithToken("abc").Logout(t.Context()))
	require.Empty(t, anon.token)
}

func TestClientTypedErrors(t *testing.T) {
	t.Parallel()

	t.Run("account locked", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ErrAccountLocked.WriteError(w)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Login(t.Context(), "jdoe", "pw")
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusLocked, apiErr.StatusCode)
		require.Equal(t, ErrorCodeAccountLocked, apiErr.Code)
	})

	t.Run("validation details survive", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			NewValidationError("invalid content", map[string]string{"title": "required"}).WriteError(w)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).CreateContent(t.Context(), "homepage", ContentRequest{})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, ErrorCodeValidation, apiErr.Code)
		require.Equal(t, "required", apiErr.Details["title"])
	})

	t.Run("non-JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Liveness(t.Context())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, ErrorCodeServerError, apiErr.Code)
		require.Contains(t, apiErr.Description, "502")
	})
}
