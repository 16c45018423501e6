package userctx

import "context"

// Context key type
type contextKey string

const userUUIDKey contextKey = "user_uuid"
const auditApiCallUUIDKey contextKey = "audit_api_call_uuid"

// SetUserUUID adds the authenticated user's UUID to request context
func SetUserUUID(ctx context.Context, userUUID string) context.Context {
	return context.WithValue(ctx, userUUIDKey, userUUID)
}

// GetUserUUID retrieves the authenticated user's UUID from request context
func GetUserUUID(ctx context.Context) string {
	if v := ctx.Value(userUUIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetAuditApiCallUUID adds the request's audit api call UUID to context
func SetAuditApiCallUUID(ctx context.Context, apiCallUUID string) context.Context {
	return context.WithValue(ctx, auditApiCallUUIDKey, apiCallUUID)
}

// GetAuditApiCallUUID retrieves the request's audit api call UUID from context
func GetAuditApiCallUUID(ctx context.Context) string {
	if v := ctx.Value(auditApiCallUUIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
