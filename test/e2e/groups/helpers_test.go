package groups_test

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	httpapi "github.com/quittly/quittly/internal/groups/http"
	"github.com/quittly/quittly/internal/groups/service"
	"github.com/quittly/quittly/internal/groups/store/drivers/sqlite"
	"github.com/quittly/quittly/pkg/groupsdk"
	"github.com/quittly/quittly/pkg/httpx"
	"github.com/quittly/quittly/pkg/slogx"
)

/*
 * End-to-end tests run the full HTTP stack (router, middleware, services,
 * sqlite store) in-process against an httptest server. Sessions are minted
 * with the same shared secret the verifier is configured with, standing in
 * for the identity service.
 */

const (
	sessionSecret = "e2e-test-session-secret"
	sessionIssuer = "quittly-identity"
	buildVersion  = "e2e"
)

// TestMain raises the rate limits so rapid test requests do not trip the
// production profiles.
func TestMain(m *testing.M) {
	generous := httpx.RateLimitConfig{
		RequestsPerWindow: 10000,
		Window:            time.Minute,
		Burst:             10000,
	}
	httpx.StrictLimit = generous
	httpx.ModerateLimit = generous
	httpx.LenientLimit = generous

	os.Exit(m.Run())
}

// testLogger keeps e2e output quiet unless something goes wrong.
func testLogger() *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "groups-service",
		Version: buildVersion,
		Env:     "test",
		Level:   "error",
		Format:  "text",
	})
}

// setupGroupsServer starts the service in-process and returns its base URL
// together with the verifier used to mint test sessions.
func setupGroupsServer(t *testing.T) (string, *httpx.SessionVerifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	verifier := &httpx.SessionVerifier{
		Secret: []byte(sessionSecret),
		Issuer: sessionIssuer,
	}

	router := httpapi.NewRouter(verifier, buildVersion, st, testLogger())
	router.GroupService = &service.GroupService{Store: st}
	router.InvitationService = &service.InvitationService{Store: st}
	router.MembershipService = &service.MembershipService{Store: st}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server.URL, verifier
}

// mintSession issues a one-hour session token for the given account.
func mintSession(t *testing.T, verifier *httpx.SessionVerifier, userID, phone string) string {
	t.Helper()

	token, err := verifier.Mint(
		httpx.Identity{UserID: userID, Phone: phone},
		*jwt.NewNumericDate(time.Now().Add(time.Hour)),
	)
	require.NoError(t, err)
	return token
}

// createAccountSession registers an account and returns it with an
// authenticated SDK session.
func createAccountSession(
	t *testing.T,
	client *groupsdk.SDKClient,
	verifier *httpx.SessionVerifier,
	phone, displayName string,
) (*groupsdk.AccountResponse, *groupsdk.Session) {
	t.Helper()

	account, err := client.CreateAccount(t.Context(), groupsdk.CreateAccountRequest{
		Phone:       phone,
		DisplayName: displayName,
	})
	require.NoError(t, err)

	token := mintSession(t, verifier, account.User.ID, account.User.Phone)
	return account, client.NewSession(token)
}

// requireAPIError asserts err is an APIError with the given HTTP status.
func requireAPIError(t *testing.T, err error, status int) *groupsdk.APIError {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := err.(*groupsdk.APIError)
	require.True(t, ok, "expected *groupsdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	return apiErr
}
