package service

import (
	"context"
	"fmt"

	"github.com/dzahariev/usergate/common"
	"github.com/dzahariev/usergate/idp"
	"github.com/dzahariev/usergate/model"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound    = idp.ErrUserNotFound
	ErrUserExists      = idp.ErrUserExists
	ErrProviderFailure = idp.ErrProviderFailure
)

// UserService manages users of one realm through the identity provider
type UserService struct {
	client idp.Client
	realm  string
}

// NewUserService creates the service for realm; both arguments are read-only afterwards
func NewUserService(client idp.Client, realm string) *UserService {
	return &UserService{
		client: client,
		realm:  realm,
	}
}

// Realm returns the configured realm
func (s *UserService) Realm() string {
	return s.realm
}

// Create validates the request and creates the user with a single provider call.
// Identical requests are not deduplicated.
func (s *UserService) Create(ctx context.Context, request *model.UserRequest) error {
	logger := common.GetLogger(ctx)
	if err := request.Validate(); err != nil {
		logger.Debug("User request rejected", zap.Error(err))
		return err
	}

	id, err := s.client.CreateUser(ctx, s.realm, request.Representation())
	if err != nil {
		return err
	}
	logger.Debug("User created", zap.String("realm", s.realm), zap.String("userID", id), zap.String("username", request.Username))
	return nil
}

// Get loads the user together with its role mappings
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	logger := common.GetLogger(ctx)
	userID := id.String()

	user, err := s.client.GetUserByID(ctx, s.realm, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}

	mappings, err := s.client.GetRoleMappingByUserID(ctx, s.realm, userID)
	if err != nil {
		return nil, err
	}
	logger.Debug("User loaded", zap.String("realm", s.realm), zap.String("userID", userID))
	return model.NewUserResponse(user, mappings), nil
}
