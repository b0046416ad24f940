package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxToken       = "firebase_token"

	// HeaderUserID carries the caller's uid in dev mode and on calls the
	// server makes to itself.
	HeaderUserID = "X-User-Id"

	DemoUser = "demo-user"
)

type userKey struct{}

// UserID returns the authenticated user's Firebase UID, or "" when the
// request passed through no auth middleware.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// WithUser attaches uid to ctx for calls made outside the gin request.
func WithUser(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userKey{}, uid)
}

func UserFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(userKey{}).(string)
	return uid
}
