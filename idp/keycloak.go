package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Nerzal/gocloak/v13"
	"github.com/dzahariev/usergate/cfg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// KeycloakClient talks to the Keycloak admin API as a service account
type KeycloakClient struct {
	Client *gocloak.GoCloak
	Tokens oauth2.TokenSource
}

// NewClient is used to init a pre-authenticated client for the Keycloak admin API.
// Admin tokens are obtained with the client credentials grant and reused until they expire.
func NewClient(cfg *cfg.Keycloak) *KeycloakClient {
	client := gocloak.NewClient(cfg.BaseURL())
	client.RestyClient().SetTimeout(cfg.Timeout)

	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL(),
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})

	return &KeycloakClient{
		Client: client,
		Tokens: credentials.TokenSource(tokenCtx),
	}
}

// CreateUser creates the user in realm and returns its new ID
func (kc *KeycloakClient) CreateUser(ctx context.Context, realm string, user gocloak.User) (string, error) {
	token, err := kc.accessToken()
	if err != nil {
		return "", err
	}
	id, err := kc.Client.CreateUser(ctx, token, realm, user)
	if err != nil {
		return "", translate("create user", err)
	}
	return id, nil
}

// GetUserByID loads the user representation
func (kc *KeycloakClient) GetUserByID(ctx context.Context, realm, userID string) (*gocloak.User, error) {
	token, err := kc.accessToken()
	if err != nil {
		return nil, err
	}
	user, err := kc.Client.GetUserByID(ctx, token, realm, userID)
	if err != nil {
		return nil, translate("get user", err)
	}
	return user, nil
}

// GetRoleMappingByUserID loads realm and client role mappings of the user
func (kc *KeycloakClient) GetRoleMappingByUserID(ctx context.Context, realm, userID string) (*gocloak.MappingsRepresentation, error) {
	token, err := kc.accessToken()
	if err != nil {
		return nil, err
	}
	mappings, err := kc.Client.GetRoleMappingByUserID(ctx, token, realm, userID)
	if err != nil {
		return nil, translate("get role mappings", err)
	}
	return mappings, nil
}

func (kc *KeycloakClient) accessToken() (string, error) {
	token, err := kc.Tokens.Token()
	if err != nil {
		return "", fmt.Errorf("obtain admin token: %w: %w", ErrProviderFailure, err)
	}
	return token.AccessToken, nil
}

// translate maps a gocloak error to the package error kinds
func translate(operation string, err error) error {
	var apiErr *gocloak.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", operation, ErrUserNotFound)
		case http.StatusConflict:
			return fmt.Errorf("%s: %w", operation, ErrUserExists)
		}
	}
	return fmt.Errorf("%s: %w: %w", operation, ErrProviderFailure, err)
}
