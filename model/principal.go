package model

// Principal is the authenticated caller of the API
type Principal struct {
	ID       string
	Username string
	Email    string
	Roles    []string
}

// Name returns the username, or the subject when the token carries none
func (p *Principal) Name() string {
	if p.Username != "" {
		return p.Username
	}
	return p.ID
}
