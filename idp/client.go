package idp

import (
	"context"
	"errors"

	"github.com/Nerzal/gocloak/v13"
)

var (
	// ErrUserNotFound is returned when the provider has no user with the requested ID
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the provider rejects a creation as a conflict
	ErrUserExists = errors.New("user already exists")
	// ErrProviderFailure covers every other rejection and all communication failures
	ErrProviderFailure = errors.New("identity provider failure")
)

// Client is the subset of the identity provider admin API used by the user service
type Client interface {
	CreateUser(ctx context.Context, realm string, user gocloak.User) (string, error)
	GetUserByID(ctx context.Context, realm, userID string) (*gocloak.User, error)
	GetRoleMappingByUserID(ctx context.Context, realm, userID string) (*gocloak.MappingsRepresentation, error)
}
