package notifier

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"tg_escrow/internal/domain/service/escrow"
	"tg_escrow/pkg/contextx"
	"tg_escrow/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const dealEventMaxRetry = 5

// Dispatcher кладёт события о переходах в очередь asynq. Доставка
// best-effort: ошибка постановки логируется и глотается, коммит леджера она
// не отменяет.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(client *asynq.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

func (d *Dispatcher) DealEvent(ctx context.Context, event escrow.DealEvent) {
	task, err := NewDealEventTask(event)
	if err != nil {
		logger(ctx).Error("notifier.NewDealEventTask", logx.Error(err))
		return
	}

	_, err = d.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(dealEventMaxRetry),
	)
	if err != nil {
		logger(ctx).Error(
			"notification enqueue failed",
			slog.String("deal-id", event.DealID.String()),
			slog.String("kind", string(event.Kind)),
			logx.Error(err),
		)
	}
}
