package entity

import (
	"time"

	"tg_escrow/internal/domain/value"
)

// CompletionRecord — неизменяемая запись о расчёте по сделке.
// Пишется ровно один раз, в момент подтверждения получения.
type CompletionRecord struct {
	DealID      value.DealID
	Seller      value.PartyID
	Buyer       value.PartyID
	Amount      value.Amount
	Title       string
	Description string
	CompletedAt time.Time
}

func NewCompletionRecord(deal Deal, amount value.Amount, now time.Time) CompletionRecord {
	return CompletionRecord{
		DealID:      deal.ID,
		Seller:      deal.Seller,
		Buyer:       deal.Buyer,
		Amount:      amount,
		Title:       deal.Title,
		Description: deal.Description,
		CompletedAt: now,
	}
}
