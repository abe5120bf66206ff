package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"tg_escrow/internal/infrastructure/notifier"
	"tg_escrow/pkg/contextx"
	"tg_escrow/pkg/logx"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

type DealEventSender interface {
	Send(ctx context.Context, payload notifier.DealEventPayload) error
}

// NotificationWorker разбирает очередь уведомлений. Ошибки отправки уходят в
// ретрай asynq и никогда не влияют на уже зафиксированные переходы.
type NotificationWorker struct {
	sender DealEventSender
}

func NewNotificationWorker(sender DealEventSender) *NotificationWorker {
	return &NotificationWorker{sender: sender}
}

func (w *NotificationWorker) HandleDealEvent(ctx context.Context, task *asynq.Task) error {
	var payload notifier.DealEventPayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Битую задачу ретраить бессмысленно.
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	if err := w.sender.Send(ctx, payload); err != nil {
		logger(ctx).Error(
			"notification send failed",
			slog.String("deal-id", payload.DealID),
			slog.String("kind", payload.Kind),
			logx.Error(err),
		)

		return fmt.Errorf("sender.Send: %w", err)
	}

	return nil
}
