// Package context carries request-scoped correlation values for logs and traces.
package context

import (
	"context"
	"strings"
)

type requestIDKey struct{}
type actorIDKey struct{}
type orgSlugKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// WithActorID records the authenticated user id.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey{}, strings.TrimSpace(actorID))
}

func ActorIDFromContext(ctx context.Context) string {
	return stringValue(ctx, actorIDKey{})
}

func WithOrgSlug(ctx context.Context, slug string) context.Context {
	return context.WithValue(ctx, orgSlugKey{}, strings.TrimSpace(slug))
}

func OrgSlugFromContext(ctx context.Context) string {
	return stringValue(ctx, orgSlugKey{})
}

func stringValue(ctx context.Context, key any) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}
