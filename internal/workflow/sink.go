package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/pkg/models"
)

// Sink delivers committed notifications. Delivery is fire-and-forget.
type Sink interface {
	Deliver(ctx context.Context, n *models.Notification)
}

// LogSink writes each notification to the log
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: logger.OrNop(log)}
}

func (s *LogSink) Deliver(_ context.Context, n *models.Notification) {
	s.log.Info("notification",
		zap.String("notification_id", n.ID),
		zap.String("recipient_id", n.RecipientID),
		zap.String("type", string(n.Type)),
		zap.String("title", n.Title),
	)
}
