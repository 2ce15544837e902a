package model

import (
	"github.com/Nerzal/gocloak/v13"
)

const passwordCredential = "password"

// UserRequest is the payload accepted when creating a user
type UserRequest struct {
	Username  string `json:"username" validate:"required,notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,notblank"`
	FirstName string `json:"firstName" validate:"required,notblank"`
	LastName  string `json:"lastName" validate:"required,notblank"`
}

// Validate checks structure consistency
func (u *UserRequest) Validate() error {
	return validateStruct(u)
}

// Representation maps the request to a new, enabled Keycloak user
func (u *UserRequest) Representation() gocloak.User {
	return gocloak.User{
		Username:  gocloak.StringP(u.Username),
		Email:     gocloak.StringP(u.Email),
		FirstName: gocloak.StringP(u.FirstName),
		LastName:  gocloak.StringP(u.LastName),
		Enabled:   gocloak.BoolP(true),
		Credentials: &[]gocloak.CredentialRepresentation{
			{
				Type:      gocloak.StringP(passwordCredential),
				Value:     gocloak.StringP(u.Password),
				Temporary: gocloak.BoolP(false),
			},
		},
	}
}

// UserResponse is the simplified view of a Keycloak user
type UserResponse struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// NewUserResponse builds the view from the user representation and its role mappings.
// Only realm role mappings are reported.
func NewUserResponse(user *gocloak.User, mappings *gocloak.MappingsRepresentation) *UserResponse {
	response := &UserResponse{
		Roles: []string{},
	}
	if user != nil {
		response.ID = gocloak.PString(user.ID)
		response.FirstName = gocloak.PString(user.FirstName)
		response.LastName = gocloak.PString(user.LastName)
		response.Email = gocloak.PString(user.Email)
	}
	if mappings != nil && mappings.RealmMappings != nil {
		for _, role := range *mappings.RealmMappings {
			if role.Name != nil {
				response.Roles = append(response.Roles, *role.Name)
			}
		}
	}
	return response
}
