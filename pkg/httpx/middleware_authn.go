package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quittly/quittly/pkg/slogx"
)

// Identity is the authenticated caller asserted by the external
// identity/session layer. The phone number, when present, has already been
// verified by that layer.
type Identity struct {
	UserID string
	Phone  string
}

type sessionClaims struct {
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// SessionVerifier validates the HS256 session tokens minted by the identity
// layer. This service never issues tokens itself.
type SessionVerifier struct {
	Secret []byte
	Issuer string
}

// Verify parses and validates a raw session token and returns the identity
// it asserts.
func (v *SessionVerifier) Verify(raw string) (Identity, error) {
	var claims sessionClaims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return v.Secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("session token invalid: %w", err)
	}

	if claims.Subject == "" {
		return Identity{}, errors.New("session token missing subject")
	}

	return Identity{UserID: claims.Subject, Phone: claims.Phone}, nil
}

// Mint creates a session token for the given identity. The service only
// uses this in tests; in production the identity layer owns issuance.
func (v *SessionVerifier) Mint(id Identity, expiry jwt.NumericDate) (string, error) {
	claims := sessionClaims{
		Phone: id.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    v.Issuer,
			ExpiresAt: &expiry,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.Secret)
}

// AuthnMiddleware verifies the bearer session token and injects the caller
// identity into the request context.
func AuthnMiddleware(v *SessionVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			identity, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("session verify failed", "err", err)
				return
			}

			ctx = contextWithIdentity(ctx, identity)
			ctx = slogx.WithUser(ctx, identity.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
	ctx = context.WithValue(ctx, CtxKeyPhone, id.Phone)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
