package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Nerzal/gocloak/v13"
	"github.com/dzahariev/usergate/model"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testRealm = "itm"

// mockIdentityProvider is a mock implementation of idp.Client.
type mockIdentityProvider struct {
	mock.Mock
}

func (m *mockIdentityProvider) CreateUser(ctx context.Context, realm string, user gocloak.User) (string, error) {
	args := m.Called(ctx, realm, user)
	return args.String(0), args.Error(1)
}

func (m *mockIdentityProvider) GetUserByID(ctx context.Context, realm, userID string) (*gocloak.User, error) {
	args := m.Called(ctx, realm, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gocloak.User), args.Error(1)
}

func (m *mockIdentityProvider) GetRoleMappingByUserID(ctx context.Context, realm, userID string) (*gocloak.MappingsRepresentation, error) {
	args := m.Called(ctx, realm, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gocloak.MappingsRepresentation), args.Error(1)
}

func validRequest() *model.UserRequest {
	return &model.UserRequest{
		Username:  "alex",
		Email:     "alex@gmail.com",
		Password:  "qwerty",
		FirstName: "alex",
		LastName:  "alexov",
	}
}

func TestCreate(t *testing.T) {
	provider := &mockIdentityProvider{}
	request := validRequest()
	provider.On("CreateUser", mock.Anything, testRealm, request.Representation()).Return(uuid.Must(uuid.NewV4()).String(), nil).Once()

	err := NewUserService(provider, testRealm).Create(context.Background(), request)

	require.NoError(t, err)
	provider.AssertExpectations(t)
	provider.AssertNumberOfCalls(t, "CreateUser", 1)
}

func TestCreateIsNotDeduplicated(t *testing.T) {
	provider := &mockIdentityProvider{}
	provider.On("CreateUser", mock.Anything, testRealm, mock.Anything).Return("id-1", nil).Once()
	provider.On("CreateUser", mock.Anything, testRealm, mock.Anything).Return("", fmt.Errorf("create user: %w", ErrUserExists)).Once()
	users := NewUserService(provider, testRealm)

	require.NoError(t, users.Create(context.Background(), validRequest()))
	err := users.Create(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrUserExists))
	provider.AssertNumberOfCalls(t, "CreateUser", 2)
}

func TestCreateInvalidRequestSkipsProvider(t *testing.T) {
	invalid := []*model.UserRequest{
		{Username: "alex", Email: "@gmail.com", Password: "", FirstName: "Aleksandr", LastName: ""},
		{Username: "", Email: "alex@gmail.com", Password: "qwerty", FirstName: "alex", LastName: "alexov"},
		{Username: "alex", Email: "alex@gmail.com", Password: "qwerty", FirstName: " ", LastName: "alexov"},
		{Username: "alex", Email: "not-an-email", Password: "qwerty", FirstName: "alex", LastName: "alexov"},
	}
	for _, request := range invalid {
		provider := &mockIdentityProvider{}

		err := NewUserService(provider, testRealm).Create(context.Background(), request)

		var validationErr *model.ValidationError
		assert.True(t, errors.As(err, &validationErr), "request %+v", request)
		provider.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestCreateProviderFailure(t *testing.T) {
	provider := &mockIdentityProvider{}
	provider.On("CreateUser", mock.Anything, testRealm, mock.Anything).Return("", fmt.Errorf("create user: %w", ErrProviderFailure)).Once()

	err := NewUserService(provider, testRealm).Create(context.Background(), validRequest())

	assert.True(t, errors.Is(err, ErrProviderFailure))
	provider.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	provider := &mockIdentityProvider{}
	provider.On("GetUserByID", mock.Anything, testRealm, id.String()).Return(&gocloak.User{
		ID:        gocloak.StringP(id.String()),
		FirstName: gocloak.StringP("alex"),
		LastName:  gocloak.StringP("alex"),
		Email:     gocloak.StringP("alex@mail.ru"),
	}, nil).Once()
	provider.On("GetRoleMappingByUserID", mock.Anything, testRealm, id.String()).Return(&gocloak.MappingsRepresentation{
		RealmMappings: &[]gocloak.Role{{Name: gocloak.StringP("MODERATOR")}},
	}, nil).Once()

	response, err := NewUserService(provider, testRealm).Get(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id.String(), response.ID)
	assert.Equal(t, "alex", response.FirstName)
	assert.Equal(t, "alex", response.LastName)
	assert.Equal(t, "alex@mail.ru", response.Email)
	assert.Equal(t, []string{"MODERATOR"}, response.Roles)
	provider.AssertExpectations(t)
}

func TestGetAbsentUser(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	provider := &mockIdentityProvider{}
	provider.On("GetUserByID", mock.Anything, testRealm, id.String()).Return(nil, nil).Once()

	_, err := NewUserService(provider, testRealm).Get(context.Background(), id)

	assert.True(t, errors.Is(err, ErrUserNotFound))
	provider.AssertNotCalled(t, "GetRoleMappingByUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetNotFound(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	provider := &mockIdentityProvider{}
	provider.On("GetUserByID", mock.Anything, testRealm, id.String()).Return(nil, fmt.Errorf("get user: %w", ErrUserNotFound)).Once()

	_, err := NewUserService(provider, testRealm).Get(context.Background(), id)

	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestGetRoleMappingFailure(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	provider := &mockIdentityProvider{}
	provider.On("GetUserByID", mock.Anything, testRealm, id.String()).Return(&gocloak.User{}, nil).Once()
	provider.On("GetRoleMappingByUserID", mock.Anything, testRealm, id.String()).Return(nil, fmt.Errorf("get role mappings: %w", ErrProviderFailure)).Once()

	_, err := NewUserService(provider, testRealm).Get(context.Background(), id)

	assert.True(t, errors.Is(err, ErrProviderFailure))
	provider.AssertExpectations(t)
}
