package bootstrap

import (
	"context"
	"time"

	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries as structured zap lines on the
// "audit" logger.
type StdoutAuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewStdoutAuditLogger(logger ...*zap.Logger) *StdoutAuditLogger {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &StdoutAuditLogger{logger: l.Named("audit"), now: time.Now}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	md := contextutil.ExtractMetadata(ctx)
	actor := entry.Actor
	if actor == "" {
		actor = md.UserID
	}

	l.logger.Info("audit event",
		zap.String("timestamp", l.now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("actor", actor),
		zap.String("request_id", md.RequestID),
		zap.String("school_id", md.SchoolID),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
