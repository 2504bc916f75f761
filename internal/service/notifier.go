package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/hydration-system/internal/model"
	"github.com/mmeshcher/hydration-system/internal/reminder"
)

// LogNotifier записывает подготовленные напоминания в журнал.
// Используется, пока не подключена отправка писем.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier создаёт уведомитель, пишущий в logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify пишет содержимое напоминания в журнал.
func (n *LogNotifier) Notify(_ context.Context, profile model.Profile, content reminder.Content) error {
	n.logger.Info("hydration reminder",
		zap.String("user_id", profile.UserID.String()),
		zap.String("kind", string(content.Kind)),
		zap.String("subject", content.Subject),
		zap.Int64("progress", content.Progress),
		zap.Int64("remaining", content.Remaining),
	)
	return nil
}
