package services

import "context"

// AuditRecorder receives one event per successful mutation. Formatting and
// retention are the collaborator's concern.
type AuditRecorder interface {
	Record(ctx context.Context, action, entityKind, entityID string)
}
