package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Nerzal/gocloak/v13"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *UserRequest {
	return &UserRequest{
		Username:  "alex",
		Email:     "alex@gmail.com",
		Password:  "qwerty",
		FirstName: "alex",
		LastName:  "alexov",
	}
}

func TestUserRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *UserRequest)
		fields []FieldError
	}{
		{
			name:   "valid",
			modify: func(r *UserRequest) {},
		},
		{
			name:   "blank username",
			modify: func(r *UserRequest) { r.Username = "   " },
			fields: []FieldError{{Field: "username", Message: "must not be blank"}},
		},
		{
			name:   "missing email",
			modify: func(r *UserRequest) { r.Email = "" },
			fields: []FieldError{{Field: "email", Message: "must not be blank"}},
		},
		{
			name:   "malformed email",
			modify: func(r *UserRequest) { r.Email = "@gmail.com" },
			fields: []FieldError{{Field: "email", Message: "must be a well-formed email address"}},
		},
		{
			name: "several violations in declaration order",
			modify: func(r *UserRequest) {
				r.Email = "@gmail.com"
				r.Password = ""
				r.FirstName = "Aleksandr"
				r.LastName = ""
			},
			fields: []FieldError{
				{Field: "email", Message: "must be a well-formed email address"},
				{Field: "password", Message: "must not be blank"},
				{Field: "lastName", Message: "must not be blank"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := validRequest()
			tt.modify(request)

			err := request.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.fields, validationErr.Fields)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "email", Message: "must be a well-formed email address"},
		{Field: "password", Message: "must not be blank"},
	}}
	assert.Equal(t, "validation failed: email must be a well-formed email address; password must not be blank", err.Error())
}

func TestUserRequestRepresentation(t *testing.T) {
	user := validRequest().Representation()

	assert.Nil(t, user.ID)
	assert.Equal(t, "alex", gocloak.PString(user.Username))
	assert.Equal(t, "alex@gmail.com", gocloak.PString(user.Email))
	assert.Equal(t, "alex", gocloak.PString(user.FirstName))
	assert.Equal(t, "alexov", gocloak.PString(user.LastName))
	require.NotNil(t, user.Enabled)
	assert.True(t, *user.Enabled)
	require.NotNil(t, user.Credentials)
	require.Len(t, *user.Credentials, 1)
	credential := (*user.Credentials)[0]
	assert.Equal(t, "password", gocloak.PString(credential.Type))
	assert.Equal(t, "qwerty", gocloak.PString(credential.Value))
	assert.False(t, *credential.Temporary)
}

func TestNewUserResponse(t *testing.T) {
	user := &gocloak.User{
		ID:        gocloak.StringP("0b5c6f4e-1f61-4bd6-9d0c-6f0b5c0a7e11"),
		Username:  gocloak.StringP("alex"),
		FirstName: gocloak.StringP("alex"),
		LastName:  gocloak.StringP("alexov"),
		Email:     gocloak.StringP("alex@mail.ru"),
	}
	mappings := &gocloak.MappingsRepresentation{
		RealmMappings: &[]gocloak.Role{
			{Name: gocloak.StringP("MODERATOR")},
			{Name: gocloak.StringP("offline_access")},
		},
	}

	response := NewUserResponse(user, mappings)

	assert.Equal(t, &UserResponse{
		ID:        "0b5c6f4e-1f61-4bd6-9d0c-6f0b5c0a7e11",
		FirstName: "alex",
		LastName:  "alexov",
		Email:     "alex@mail.ru",
		Roles:     []string{"MODERATOR", "offline_access"},
	}, response)
}

func TestNewUserResponseWithoutMappings(t *testing.T) {
	response := NewUserResponse(&gocloak.User{FirstName: gocloak.StringP("alex")}, nil)

	body, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"","firstName":"alex","lastName":"","email":"","roles":[]}`, string(body))
}

func TestPrincipalName(t *testing.T) {
	assert.Equal(t, "test", (&Principal{ID: "sub", Username: "test"}).Name())
	assert.Equal(t, "sub", (&Principal{ID: "sub"}).Name())
}
