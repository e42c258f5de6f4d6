package entities

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole accepts role names case-insensitively, with or without the ROLE_ prefix
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "ROLE_")
	switch Role(name) {
	case RoleUser, RoleAdmin:
		return Role(name), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Authority is the granted-authority form used by the gateway filter
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}
