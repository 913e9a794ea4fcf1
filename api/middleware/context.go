package middleware

import "context"

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxRole        contextKey = "actor_role"
	ctxSessionID   contextKey = "session_id"
	ctxAccessToken contextKey = "access_token"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

// AccessTokenFromContext returns the upstream bearer token of the signed-in
// session. It is only ever sourced from the session record.
func AccessTokenFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAccessToken)
}

// SessionContext carries what Auth resolved for the request.
type SessionContext struct {
	SessionID   string
	UserID      string
	Role        string
	AccessToken string
}

// WithSession injects a resolved session into the context.
func WithSession(ctx context.Context, s SessionContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSessionID, s.SessionID)
	ctx = context.WithValue(ctx, ctxUserID, s.UserID)
	ctx = context.WithValue(ctx, ctxRole, s.Role)
	return context.WithValue(ctx, ctxAccessToken, s.AccessToken)
}
