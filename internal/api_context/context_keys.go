package api_context

import (
	"context"

	"github.com/fhuszti/medias-conversion-ms/internal/uuid"
)

type ctxKey string

const (
	ConversionIDKey ctxKey = "conversionID"
	AuthUserIDKey   ctxKey = "authUserID"
	AuthRolesKey    ctxKey = "authRoles"
)

func WithConversionID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ConversionIDKey, id)
}

func ConversionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ConversionIDKey).(uuid.UUID)
	return id, ok
}

// WithAuthUser stores the authenticated caller and its roles.
func WithAuthUser(ctx context.Context, id string, roles []string) context.Context {
	ctx = context.WithValue(ctx, AuthUserIDKey, id)
	return context.WithValue(ctx, AuthRolesKey, roles)
}

// AuthUserIDFromContext returns the "sub" claim of the caller's token.
func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
