package persistence

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	keyPrefixParty      = "party:"
	keyPrefixDeal       = "deal:"
	keyPrefixCompletion = "completion:"
	keySequence         = "sequence"
)

func partyStorageKey(id value.PartyID) string {
	return keyPrefixParty + id.String()
}

func dealStorageKey(id value.DealID) string {
	return keyPrefixDeal + id.String()
}

func completionStorageKey(id value.DealID) string {
	return keyPrefixCompletion + id.String()
}

// DTO проверяются в обе стороны: битая запись не должна ни попасть в
// хранилище, ни молча подняться из него.

type partyDTO struct {
	ID      string `json:"id"`
	Balance string `json:"balance"`
}

func newPartyDTO(p entity.Party) partyDTO {
	return partyDTO{
		ID:      p.ID.String(),
		Balance: p.Balance.String(),
	}
}

func (d partyDTO) toEntity() (entity.Party, error) {
	id, err := value.ParsePartyID(d.ID)
	if err != nil {
		return entity.Party{}, fmt.Errorf("value.ParsePartyID: %w", err)
	}

	balance, err := value.ParseAmount(d.Balance)
	if err != nil {
		return entity.Party{}, fmt.Errorf("value.ParseAmount: %w", err)
	}

	if balance.IsNegative() {
		return entity.Party{}, fmt.Errorf("party %s: negative balance %s", d.ID, d.Balance)
	}

	return entity.Party{ID: id, Balance: balance}, nil
}

type dealDTO struct {
	ID          string     `json:"id"`
	Seller      string     `json:"seller"`
	Buyer       string     `json:"buyer,omitempty"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Status      string     `json:"status"`
	Locked      string     `json:"locked"`
	CreatedAt   time.Time  `json:"created_at"`
	LockedAt    *time.Time `json:"locked_at,omitempty"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newDealDTO(d entity.Deal) dealDTO {
	return dealDTO{
		ID:          d.ID.String(),
		Seller:      d.Seller.String(),
		Buyer:       d.Buyer.String(),
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price.String(),
		Status:      d.Status.String(),
		Locked:      d.Locked.String(),
		CreatedAt:   d.CreatedAt,
		LockedAt:    optionalTime(d.LockedAt),
		SentAt:      optionalTime(d.SentAt),
		CompletedAt: optionalTime(d.CompletedAt),
	}
}

func (d dealDTO) toEntity() (entity.Deal, error) {
	id, err := value.ParseDealID(d.ID)
	if err != nil {
		return entity.Deal{}, fmt.Errorf("value.ParseDealID: %w", err)
	}

	seller, err := value.ParsePartyID(d.Seller)
	if err != nil {
		return entity.Deal{}, fmt.Errorf("seller: %w", err)
	}

	status, err := value.ParseDealStatus(d.Status)
	if err != nil {
		return entity.Deal{}, fmt.Errorf("value.ParseDealStatus: %w", err)
	}

	price, err := value.ParseAmount(d.Price)
	if err != nil {
		return entity.Deal{}, fmt.Errorf("price: %w", err)
	}

	locked, err := value.ParseAmount(d.Locked)
	if err != nil {
		return entity.Deal{}, fmt.Errorf("locked: %w", err)
	}

	// Инвариант эскроу: заморозка ненулевая ровно в статусах, удерживающих
	// средства, и равна цене лота.
	if status.HoldsFunds() {
		if !locked.Equal(price) {
			return entity.Deal{}, fmt.Errorf("deal %s: locked %s != price %s", d.ID, d.Locked, d.Price)
		}

		if d.Buyer == "" {
			return entity.Deal{}, fmt.Errorf("deal %s: status %s without buyer", d.ID, d.Status)
		}
	} else if status != value.StatusDisputed && !locked.IsZero() {
		return entity.Deal{}, fmt.Errorf("deal %s: unexpected locked %s in status %s", d.ID, d.Locked, d.Status)
	}

	return entity.Deal{
		ID:          id,
		Seller:      seller,
		Buyer:       value.PartyID(d.Buyer),
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Price:       price,
		Status:      status,
		Locked:      locked,
		CreatedAt:   d.CreatedAt,
		LockedAt:    timeOrZero(d.LockedAt),
		SentAt:      timeOrZero(d.SentAt),
		CompletedAt: timeOrZero(d.CompletedAt),
	}, nil
}

type completionDTO struct {
	DealID      string    `json:"deal_id"`
	Seller      string    `json:"seller"`
	Buyer       string    `json:"buyer"`
	Amount      string    `json:"amount"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CompletedAt time.Time `json:"completed_at"`
}

func newCompletionDTO(rec entity.CompletionRecord) completionDTO {
	return completionDTO{
		DealID:      rec.DealID.String(),
		Seller:      rec.Seller.String(),
		Buyer:       rec.Buyer.String(),
		Amount:      rec.Amount.String(),
		Title:       rec.Title,
		Description: rec.Description,
		CompletedAt: rec.CompletedAt,
	}
}

func (d completionDTO) toEntity() (entity.CompletionRecord, error) {
	dealID, err := value.ParseDealID(d.DealID)
	if err != nil {
		return entity.CompletionRecord{}, fmt.Errorf("value.ParseDealID: %w", err)
	}

	seller, err := value.ParsePartyID(d.Seller)
	if err != nil {
		return entity.CompletionRecord{}, fmt.Errorf("seller: %w", err)
	}

	buyer, err := value.ParsePartyID(d.Buyer)
	if err != nil {
		return entity.CompletionRecord{}, fmt.Errorf("buyer: %w", err)
	}

	amount, err := value.ParseAmount(d.Amount)
	if err != nil {
		return entity.CompletionRecord{}, fmt.Errorf("amount: %w", err)
	}

	return entity.CompletionRecord{
		DealID:      dealID,
		Seller:      seller,
		Buyer:       buyer,
		Amount:      amount,
		Title:       d.Title,
		Description: d.Description,
		CompletedAt: d.CompletedAt,
	}, nil
}

type counterDTO struct {
	Letter string `json:"letter"`
	Number int    `json:"number"`
}

func newCounterDTO(c entity.SequenceCounter) counterDTO {
	return counterDTO{
		Letter: string(c.Letter),
		Number: c.Number,
	}
}

func (d counterDTO) toEntity() (entity.SequenceCounter, error) {
	if len(d.Letter) != 1 {
		return entity.SequenceCounter{}, fmt.Errorf("sequence letter %q must be a single character", d.Letter)
	}

	counter := entity.SequenceCounter{Letter: d.Letter[0], Number: d.Number}

	if err := counter.Validate(); err != nil {
		return entity.SequenceCounter{}, err
	}

	return counter, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}
