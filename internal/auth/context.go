package auth

import (
	"context"
)

// Role is a staff role carried in tokens
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// UserContext holds authenticated staff information
type UserContext struct {
	Subject     string
	DisplayName string
	Email       string
	Roles       []Role
	// AuthType is "api_key" or "jwt"
	AuthType string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if user has the admin role
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// ParseRoles keeps the known roles of raw, in order, without duplicates
func ParseRoles(raw []string) []Role {
	roles := make([]Role, 0, len(raw))
	seen := make(map[Role]bool, len(raw))
	for _, s := range raw {
		r := Role(s)
		if r.IsValid() && !seen[r] {
			seen[r] = true
			roles = append(roles, r)
		}
	}
	return roles
}
