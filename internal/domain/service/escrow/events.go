package escrow

import (
	"context"

	"tg_escrow/internal/domain/value"
)

type EventKind string

const (
	EventDealCreated   EventKind = "deal_created"
	EventDealLocked    EventKind = "deal_locked"
	EventDealSent      EventKind = "deal_sent"
	EventDealCompleted EventKind = "deal_completed"
	EventDealDisputed  EventKind = "deal_disputed"
)

// DealEvent — уведомление о зафиксированном переходе. Доставка best-effort:
// для самой операции переход считается завершённым независимо от него.
type DealEvent struct {
	Kind   EventKind
	DealID value.DealID
	Seller value.PartyID
	Buyer  value.PartyID
	Amount value.Amount
	Title  string
}

// Notifier вызывается строго после коммита и никогда не ожидается леджером.
type Notifier interface {
	DealEvent(ctx context.Context, event DealEvent)
}

type nopNotifier struct{}

func (nopNotifier) DealEvent(context.Context, DealEvent) {}
