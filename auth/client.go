package auth

import (
	"context"
	"errors"

	"github.com/dzahariev/usergate/model"
)

// ErrUnauthenticated is returned for missing, inactive or unverifiable tokens
var ErrUnauthenticated = errors.New("unauthenticated")

// Client resolves a bearer access token to the calling principal
type Client interface {
	Authenticate(ctx context.Context, accessToken string) (*model.Principal, error)
}
