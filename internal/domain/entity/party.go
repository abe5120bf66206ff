package entity

import (
	"tg_escrow/internal/domain/value"
)

// Party — участник торгов. Баланс никогда не бывает отрицательным.
type Party struct {
	ID      value.PartyID
	Balance value.Amount
}

// Credited возвращает копию с пополненным балансом.
func (p Party) Credited(amount value.Amount) Party {
	p.Balance = p.Balance.Add(amount)
	return p
}

// Debited возвращает копию со списанием. ok == false, если списание
// увело бы баланс в минус; сам участник при этом не меняется.
func (p Party) Debited(amount value.Amount) (Party, bool) {
	next := p.Balance.Sub(amount)
	if next.IsNegative() {
		return p, false
	}

	p.Balance = next

	return p, true
}
