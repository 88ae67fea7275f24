// Package requestdata carries the external identity-provider session through
// a request's context. The session is read-only and supplies at most an
// email and a display name; both may be empty (anonymous).
package requestdata

import "context"

type Session struct {
	Email string
	Name  string
}

func (s Session) Anonymous() bool { return s.Email == "" && s.Name == "" }

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession returns the session attached to ctx, or an anonymous one.
func GetSession(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		return s
	}
	return Session{}
}
