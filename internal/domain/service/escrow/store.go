package escrow

import (
	"sort"
	"sync"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
)

// DealStore держит сделки и записи о расчётах в памяти. Как и в Ledger,
// мутации фиксируются через Apply только после долговечной записи.
type DealStore struct {
	mu          sync.RWMutex
	deals       map[value.DealID]entity.Deal
	completions map[value.DealID]entity.CompletionRecord
}

func NewDealStore(
	deals map[value.DealID]entity.Deal,
	completions map[value.DealID]entity.CompletionRecord,
) *DealStore {
	ownDeals := make(map[value.DealID]entity.Deal, len(deals))
	for id, d := range deals {
		ownDeals[id] = d
	}

	ownCompletions := make(map[value.DealID]entity.CompletionRecord, len(completions))
	for id, c := range completions {
		ownCompletions[id] = c
	}

	return &DealStore{deals: ownDeals, completions: ownCompletions}
}

func (s *DealStore) Deal(id value.DealID) (entity.Deal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deal, ok := s.deals[id]
	if !ok {
		return entity.Deal{}, domain.NewDealNotFoundError(id)
	}

	return deal, nil
}

// Open возвращает открытые лоты, упорядоченные по id.
func (s *DealStore) Open() []entity.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open := make([]entity.Deal, 0)
	for _, d := range s.deals {
		if d.Status == value.StatusOpen {
			open = append(open, d)
		}
	}

	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })

	return open
}

func (s *DealStore) Completion(id value.DealID) (entity.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.completions[id]
	if !ok {
		return entity.CompletionRecord{}, domain.NewDealNotFoundError(id)
	}

	return rec, nil
}

func (s *DealStore) Apply(deal entity.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deals[deal.ID] = deal
}

// ApplyCompletion пишет запись о расчёте. Запись одноразовая: повторная
// попытка молча игнорируется, первый вариант остаётся неизменным.
func (s *DealStore) ApplyCompletion(rec entity.CompletionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.completions[rec.DealID]; ok {
		return
	}

	s.completions[rec.DealID] = rec
}

// TotalLocked — сумма замороженных средств по всем сделкам.
func (s *DealStore) TotalLocked() value.Amount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := value.ZeroAmount()
	for _, d := range s.deals {
		total = total.Add(d.Locked)
	}

	return total
}
