package log

import (
	"context"

	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// Notifier implements ports.Notifier by logging each notification.
// The recipient name is deliberately not logged so assignments never leak
// into log aggregation; only the addressee is recorded.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a new logging notifier
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Notify logs a single assignment notification
func (n *Notifier) Notify(ctx context.Context, msg ports.Notification) error {
	n.logger.Info("assignment notification dispatched",
		zap.String("group_id", msg.GroupID),
		zap.String("group_name", msg.GroupName),
		zap.String("participant_id", msg.Participant.ID),
		zap.String("email", msg.Participant.Email))

	return nil
}
