package services

import (
	"context"
	"log/slog"

	"github.com/staffsync/staffsync_backend/internal/apperrors"
	portssvc "github.com/staffsync/staffsync_backend/internal/core/ports/services"
	"github.com/staffsync/staffsync_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	PermissionChecker portssvc.RoleResolverSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning message with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequirePermission checks that the acting user's effective role grants the
// given permission, returning apperrors.ErrForbidden when it does not.
func (s *BaseService) RequirePermission(ctx context.Context, userID, permission string) error {
	if s.PermissionChecker == nil {
		s.LogDebug(ctx, "No permission checker provided, access granted by default",
			slog.String("user_id", userID),
			slog.String("permission", permission))
		return nil
	}

	allowed, err := s.PermissionChecker.HasPermission(ctx, userID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		s.LogDebug(ctx, "User lacks required permission",
			slog.String("user_id", userID),
			slog.String("permission", permission))
		return apperrors.ErrForbidden
	}
	return nil
}
