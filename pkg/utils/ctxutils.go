package utils

import (
	"context"

	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || id == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return id, nil
}

// UserIDOrNil is for audit rows where the actor may be anonymous.
func UserIDOrNil(ctx context.Context) *uint64 {
	if id, err := GetUserIDFromCtx(ctx); err == nil {
		return &id
	}
	return nil
}

func GetRequestIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(contextkeys.RequestIDKey).(string); ok {
		return v
	}
	return ""
}

func GetClientIPFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(contextkeys.ClientIPKey).(string); ok {
		return v
	}
	return ""
}

func GetUserAgentFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(contextkeys.UserAgentKey).(string); ok {
		return v
	}
	return ""
}
