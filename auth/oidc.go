package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dzahariev/usergate/cfg"
	"github.com/dzahariev/usergate/model"
)

// OIDCClient authenticates callers by verifying access tokens locally against the realm keys
type OIDCClient struct {
	verifier *oidc.IDTokenVerifier
}

type accessTokenClaims struct {
	Subject           string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// NewOIDCClient discovers the realm issuer. An empty audience disables the audience check.
func NewOIDCClient(ctx context.Context, cfg *cfg.Keycloak, audience string) (*OIDCClient, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL())
	if err != nil {
		return nil, fmt.Errorf("cannot discover issuer %s: %w", cfg.IssuerURL(), err)
	}
	return NewOIDCClientWithVerifier(provider.Verifier(verifierConfig(audience))), nil
}

// NewOIDCClientWithVerifier wraps an existing verifier
func NewOIDCClientWithVerifier(verifier *oidc.IDTokenVerifier) *OIDCClient {
	return &OIDCClient{verifier: verifier}
}

func verifierConfig(audience string) *oidc.Config {
	return &oidc.Config{
		ClientID:          audience,
		SkipClientIDCheck: audience == "",
	}
}

// Authenticate verifies signature, issuer and expiry and reads the principal from the claims
func (c *OIDCClient) Authenticate(ctx context.Context, accessToken string) (*model.Principal, error) {
	token, err := c.verifier.Verify(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	claims := accessTokenClaims{}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return &model.Principal{
		ID:       claims.Subject,
		Username: claims.PreferredUsername,
		Email:    claims.Email,
		Roles:    claims.RealmAccess.Roles,
	}, nil
}
