package notifier

import (
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"tg_escrow/internal/domain/service/escrow"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	TaskDealEvent = "escrow:deal_event"

	QueueNotifications = "notifications"
)

type DealEventPayload struct {
	Kind   string `json:"kind"`
	DealID string `json:"deal_id"`
	Seller string `json:"seller"`
	Buyer  string `json:"buyer,omitempty"`
	Amount string `json:"amount"`
	Title  string `json:"title"`
}

func NewDealEventTask(event escrow.DealEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(DealEventPayload{
		Kind:   string(event.Kind),
		DealID: event.DealID.String(),
		Seller: event.Seller.String(),
		Buyer:  event.Buyer.String(),
		Amount: event.Amount.String(),
		Title:  event.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TaskDealEvent, payload), nil
}
