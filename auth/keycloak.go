package auth

import (
	"context"
	"fmt"

	"github.com/Nerzal/gocloak/v13"
	"github.com/Nerzal/gocloak/v13/pkg/jwx"
	"github.com/dzahariev/usergate/cfg"
	"github.com/dzahariev/usergate/model"
)

// KeycloakClient authenticates callers with Keycloak token introspection
type KeycloakClient struct {
	Client       *gocloak.GoCloak
	Realm        string
	ClientID     string
	ClientSecret string
}

// NewClient is used to init a client for Keycloak authentication
func NewClient(cfg *cfg.Keycloak) *KeycloakClient {
	client := gocloak.NewClient(cfg.BaseURL())
	client.RestyClient().SetTimeout(cfg.Timeout)
	return &KeycloakClient{
		Client:       client,
		Realm:        cfg.Realm,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}
}

// Authenticate checks that the token is active and reads the principal from its claims
func (authClient *KeycloakClient) Authenticate(ctx context.Context, accessToken string) (*model.Principal, error) {
	rptResult, err := authClient.Client.RetrospectToken(ctx, accessToken, authClient.ClientID, authClient.ClientSecret, authClient.Realm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	if rptResult.Active == nil || !*rptResult.Active {
		return nil, fmt.Errorf("%w: token is not active", ErrUnauthenticated)
	}

	jwxClaims := &jwx.Claims{}
	_, err = authClient.Client.DecodeAccessTokenCustomClaims(ctx, accessToken, authClient.Realm, jwxClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	return &model.Principal{
		ID:       jwxClaims.Subject,
		Username: jwxClaims.PreferredUsername,
		Email:    jwxClaims.Email,
		Roles:    jwxClaims.RealmAccess.Roles,
	}, nil
}
