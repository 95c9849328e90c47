package services

import (
	"context"
	"log/slog"

	portssvc "github.com/openbooks-app/openbooks_backend/internal/core/ports/services"
	"github.com/openbooks-app/openbooks_backend/internal/middleware"
)

// slogAuditRecorder emits audit events as structured log records. Formatting
// and shipping are the log pipeline's concern.
type slogAuditRecorder struct{}

// NewSlogAuditRecorder creates the default audit recorder.
func NewSlogAuditRecorder() portssvc.AuditRecorder {
	return &slogAuditRecorder{}
}

func (a *slogAuditRecorder) Record(ctx context.Context, action, entityKind, entityID string) {
	middleware.GetLoggerFromCtx(ctx).Info("audit",
		slog.String("action", action),
		slog.String("entity_kind", entityKind),
		slog.String("entity_id", entityID),
	)
}
