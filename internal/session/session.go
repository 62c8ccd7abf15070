package session

import (
	"errors"
	"strings"
)

type Role string

const (
	RoleClient Role = "client"
	RoleSalon  Role = "salon"
	RoleAdmin  Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

var roleAliases = map[string]Role{
	"client":        RoleClient,
	"клиент":        RoleClient,
	"salon":         RoleSalon,
	"салон":         RoleSalon,
	"admin":         RoleAdmin,
	"админ":         RoleAdmin,
	"администратор": RoleAdmin,
}

// ParseRole accepts the role codes stored in users.role, English or Russian,
// in any case.
func ParseRole(raw string) (Role, error) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrUnknownRole
	}
	return role, nil
}

// Session identifies who is calling. It is built once per request and passed
// explicitly to every use case.
type Session struct {
	UserID uint
	Role   Role
}

func (s Session) IsAdmin() bool  { return s.Role == RoleAdmin }
func (s Session) IsClient() bool { return s.Role == RoleClient }
func (s Session) IsSalon() bool  { return s.Role == RoleSalon }

// Owns reports whether the session acts for the given client.
func (s Session) Owns(clientID uint) bool {
	return s.IsClient() && s.UserID == clientID
}
