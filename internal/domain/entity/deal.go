package entity

import (
	"time"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/value"
)

// Deal — лот со связанным эскроу-субсчётом. Участники привязаны только по
// идентификаторам. Сделки никогда не удаляются и остаются историей.
type Deal struct {
	ID          value.DealID
	Seller      value.PartyID
	Buyer       value.PartyID // пустой, пока лот не куплен
	Type        string
	Title       string
	Description string
	Price       value.Amount
	Status      value.DealStatus
	Locked      value.Amount

	CreatedAt   time.Time
	LockedAt    time.Time
	SentAt      time.Time
	CompletedAt time.Time
}

func NewDeal(
	id value.DealID,
	seller value.PartyID,
	dealType, title, description string,
	price value.Amount,
	now time.Time,
) Deal {
	return Deal{
		ID:          id,
		Seller:      seller,
		Type:        dealType,
		Title:       title,
		Description: description,
		Price:       price,
		Status:      value.StatusOpen,
		Locked:      value.ZeroAmount(),
		CreatedAt:   now,
	}
}

// WithLock переводит open -> in_progress: закрепляет покупателя и
// замораживает сумму, равную цене. Само списание с баланса делает оркестратор
// той же атомарной операцией.
func (d Deal) WithLock(buyer value.PartyID, now time.Time) (Deal, error) {
	if d.Status != value.StatusOpen {
		return Deal{}, domain.NewInvalidStateError(d.ID, d.Status, value.StatusOpen)
	}

	d.Buyer = buyer
	d.Locked = d.Price
	d.Status = value.StatusInProgress
	d.LockedAt = now

	return d, nil
}

// WithSent переводит in_progress -> sent_to_support. Разрешено только продавцу.
func (d Deal) WithSent(actor value.PartyID, now time.Time) (Deal, error) {
	if d.Status != value.StatusInProgress {
		return Deal{}, domain.NewInvalidStateError(d.ID, d.Status, value.StatusInProgress)
	}

	if actor != d.Seller {
		return Deal{}, domain.NewUnauthorizedActorError(d.ID, actor)
	}

	d.Status = value.StatusSentToSupport
	d.SentAt = now

	return d, nil
}

// WithConfirmed переводит sent_to_support -> done и обнуляет заморозку.
// Разрешено только покупателю. Повторное подтверждение упадёт здесь же по
// статусу и не тронет баланс.
func (d Deal) WithConfirmed(actor value.PartyID, now time.Time) (Deal, error) {
	if d.Status != value.StatusSentToSupport {
		return Deal{}, domain.NewInvalidStateError(d.ID, d.Status, value.StatusSentToSupport)
	}

	if actor != d.Buyer {
		return Deal{}, domain.NewUnauthorizedActorError(d.ID, actor)
	}

	d.Locked = value.ZeroAmount()
	d.Status = value.StatusDone
	d.CompletedAt = now

	return d, nil
}

// WithDispute переводит in_progress|sent_to_support -> disputed. Средства
// остаются замороженными до внешнего разбирательства.
func (d Deal) WithDispute(actor value.PartyID) (Deal, error) {
	if !d.Status.HoldsFunds() {
		return Deal{}, domain.NewInvalidStateError(
			d.ID, d.Status, value.StatusInProgress, value.StatusSentToSupport,
		)
	}

	if actor != d.Buyer {
		return Deal{}, domain.NewUnauthorizedActorError(d.ID, actor)
	}

	d.Status = value.StatusDisputed

	return d, nil
}
