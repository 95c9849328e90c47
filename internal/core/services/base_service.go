package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/openbooks-app/openbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
)

// BaseService provides common functionality for all services: logging
// helpers plus the post-mutation side effects every writer shares.
type BaseService struct {
	Checkpointer portsrepo.Checkpointer
	Audit        portssvc.AuditRecorder
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

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// FinishMutation runs the side effects of a successful mutation: an audit
// record and a synchronous durability checkpoint. The in-memory change is
// already committed when this runs; a checkpoint failure is returned to the
// caller and retried by the periodic checkpoint timer.
func (s *BaseService) FinishMutation(ctx context.Context, action, entityKind, entityID string) error {
	if s.Audit != nil {
		s.Audit.Record(ctx, action, entityKind, entityID)
	}
	if s.Checkpointer == nil {
		return nil
	}
	if err := s.Checkpointer.Checkpoint(ctx); err != nil {
		s.LogError(ctx, err, "Post-mutation checkpoint failed; in-memory state is committed",
			slog.String("action", action),
			slog.String("entity_kind", entityKind),
			slog.String("entity_id", entityID))
		return err
	}
	return nil
}
