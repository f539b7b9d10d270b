package auth

import "context"

// Identity is the caller resolved from the session. The zero value is anonymous.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

var Anonymous = Identity{}

func (i Identity) Authenticated() bool {
	return i.Username != "" && i.Role.Valid()
}

type contextKey string

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns Anonymous when no session was resolved.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id
	}
	return Anonymous
}
