package auth

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const rolePrefix = "ROLE_"

// Permissions maps a realm role to the permissions it grants, e.g. MODERATOR: [user.read]
type Permissions map[string][]string

// DefaultPermissions grants full user access to moderators
func DefaultPermissions() Permissions {
	return Permissions{
		"MODERATOR": {"user.read", "user.write"},
	}
}

// LoadPermissions reads the mapping from a YAML file, or returns the defaults for an empty path
func LoadPermissions(path string) (Permissions, error) {
	if path == "" {
		return DefaultPermissions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read permissions file: %w", err)
	}
	permissions := Permissions{}
	if err := yaml.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("cannot parse permissions file %s: %w", path, err)
	}
	return permissions.normalized(), nil
}

func (p Permissions) normalized() Permissions {
	result := make(Permissions, len(p))
	for role, granted := range p {
		key := normalizeRole(role)
		result[key] = append(result[key], granted...)
	}
	return result
}

// Allows reports whether any of roles grants permission
func (p Permissions) Allows(roles []string, permission string) bool {
	for _, role := range roles {
		for _, granted := range p[normalizeRole(role)] {
			if strings.EqualFold(granted, permission) {
				return true
			}
		}
	}
	return false
}

func normalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	return strings.TrimPrefix(role, rolePrefix)
}
