package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyPhone  ctxKey = "phone"
)

// UserIDFromContext returns the authenticated user id, or "" when the
// request carried no valid session.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// PhoneFromContext returns the verified phone number bound to the session,
// or "" when the identity layer did not assert one.
func PhoneFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyPhone).(string); ok {
		return v
	}
	return ""
}
