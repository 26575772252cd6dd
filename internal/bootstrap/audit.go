package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Actor   string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type NopAuditLogger struct{}

func (NopAuditLogger) Log(context.Context, AuditLog) {}
