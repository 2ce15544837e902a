package common

import (
	"context"

	"github.com/dzahariev/usergate/model"
	"go.uber.org/zap"
)

// GetLogger is a helper to get logger from context or fallback
func GetLogger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.L()
}

// WithLogger returns a copy of ctx carrying logger
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetPrincipal returns the authenticated caller or nil if there is no such
func GetPrincipal(ctx context.Context) *model.Principal {
	if principal, ok := ctx.Value(PrincipalKey).(*model.Principal); ok {
		return principal
	}
	return nil
}

// WithPrincipal returns a copy of ctx carrying the authenticated caller
func WithPrincipal(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}
