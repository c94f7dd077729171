package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSessionVerifier(t *testing.T) {
	t.Parallel()

	v := &SessionVerifier{Secret: []byte("test-session-secret"), Issuer: "quittly-identity"}

	t.Run("round trips identity claims", func(t *testing.T) {
		token, err := v.Mint(
			Identity{UserID: "01J0USER", Phone: "+61400000001"},
			*jwt.NewNumericDate(time.Now().Add(time.Hour)),
		)
		require.NoError(t, err)

		id, err := v.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "01J0USER", id.UserID)
		require.Equal(t, "+61400000001", id.Phone)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		token, err := v.Mint(
			Identity{UserID: "01J0USER"},
			*jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.Error(t, err)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other := &SessionVerifier{Secret: []byte("wrong"), Issuer: "quittly-identity"}
		token, err := other.Mint(
			Identity{UserID: "01J0USER"},
			*jwt.NewNumericDate(time.Now().Add(time.Hour)),
		)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.Error(t, err)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	v := &SessionVerifier{Secret: []byte("test-session-secret"), Issuer: "quittly-identity"}

	var seen Identity
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = Identity{
			UserID: UserIDFromContext(r.Context()),
			Phone:  PhoneFromContext(r.Context()),
		}
		w.WriteHeader(http.StatusOK)
	}), AuthnMiddleware(v))

	t.Run("missing header is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("valid token injects identity", func(t *testing.T) {
		token, err := v.Mint(
			Identity{UserID: "01J0USER", Phone: "+61400000001"},
			*jwt.NewNumericDate(time.Now().Add(time.Hour)),
		)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "01J0USER", seen.UserID)
		require.Equal(t, "+61400000001", seen.Phone)
	})
}
