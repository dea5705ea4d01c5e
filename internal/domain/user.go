package domain

import (
	"context"
	"time"
)

// Profile roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated caller, passed explicitly from the auth
// middleware down to services.
type Identity struct {
	UserID string
	Email  string
	// Role is the token audience role (e.g. "authenticated"), not the profile role.
	Role  string
	Token string
}

// Profile is the application profile of an auth user.
type Profile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CurrentPlan *string   `json:"current_plan,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the profile may use the admin endpoints.
func (p Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type identityKey struct{}

// ContextWithIdentity stores the caller on ctx for components that only receive a context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller stored by ContextWithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
