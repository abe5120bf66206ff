package ledger

import (
	"sync"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
)

// Ledger хранит доступные балансы участников. Мутации двухфазные: Credited и
// Debited только готовят обновлённые копии, а Apply фиксирует их в памяти.
// Оркестратор вызывает Apply строго после успешной долговечной записи, поэтому
// откат — это просто отсутствие Apply.
type Ledger struct {
	mu      sync.RWMutex
	parties map[value.PartyID]entity.Party
}

func New(parties map[value.PartyID]entity.Party) *Ledger {
	own := make(map[value.PartyID]entity.Party, len(parties))
	for id, p := range parties {
		own[id] = p
	}

	return &Ledger{parties: own}
}

// Party возвращает участника; неизвестный id читается как нулевой баланс.
func (l *Ledger) Party(id value.PartyID) entity.Party {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if p, ok := l.parties[id]; ok {
		return p
	}

	return entity.Party{ID: id, Balance: value.ZeroAmount()}
}

func (l *Ledger) Balance(id value.PartyID) value.Amount {
	return l.Party(id).Balance
}

// Credited готовит пополнение.
func (l *Ledger) Credited(id value.PartyID, amount value.Amount) entity.Party {
	return l.Party(id).Credited(amount)
}

// Debited готовит списание; уход в минус запрещён.
func (l *Ledger) Debited(id value.PartyID, amount value.Amount) (entity.Party, error) {
	party := l.Party(id)

	debited, ok := party.Debited(amount)
	if !ok {
		return entity.Party{}, domain.NewInsufficientFundsError(id, party.Balance, amount)
	}

	return debited, nil
}

// Apply фиксирует подготовленные копии.
func (l *Ledger) Apply(parties ...entity.Party) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, p := range parties {
		l.parties[p.ID] = p
	}
}

// TotalBalance — сумма всех доступных балансов. Нужна проверкам сохранения
// средств в тестах и оркестраторе.
func (l *Ledger) TotalBalance() value.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := value.ZeroAmount()
	for _, p := range l.parties {
		total = total.Add(p.Balance)
	}

	return total
}
