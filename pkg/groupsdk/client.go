package groupsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Quittly groups service. It provides access
// to the unauthenticated endpoints and creates authenticated Sessions from
// session tokens minted by the identity service.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new groups service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSession wraps an existing session token in an authenticated Session.
// The groups service does not mint tokens itself; they come from the
// identity service's login flow.
func (c *SDKClient) NewSession(sessionToken string) *Session {
	return &Session{
		client: c,
		token:  sessionToken,
	}
}

// Session is an authenticated view of the groups service, bound to one
// session token. It is safe for concurrent use.
type Session struct {
	client *SDKClient
	token  string
}

// ============================================================================
// Unauthenticated Operations
// ============================================================================

// CreateAccount registers a new account and its personal group.
func (c *SDKClient) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	var out AccountResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/accounts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInvitation resolves an invitation token to its landing-page view.
// Expired, consumed and unknown tokens all yield a 404 APIError.
func (c *SDKClient) GetInvitation(ctx context.Context, token string) (*InvitationView, error) {
	var out InvitationView
	if err := c.doJSON(ctx, http.MethodGet, "/v1/invitations/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeclineInvitation declines an invitation by its token. No session is
// required; holding the token is proof enough of being the invitee.
func (c *SDKClient) DeclineInvitation(ctx context.Context, token string) (*Membership, error) {
	var out Membership
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invitations/decline", DeclineInvitationRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Livez checks the liveness endpoint.
func (c *SDKClient) Livez(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz checks the readiness endpoint.
func (c *SDKClient) Readyz(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
