package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
	"tg_escrow/pkg/errcodes"
)

// Store кодирует доменные сущности в записи KV и обратно. Один SaveTransition
// — одна атомарная партия ключей: реализация KV обязана записать её целиком
// либо не записать вовсе.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Snapshot — полное состояние системы, поднятое при старте.
type Snapshot struct {
	Parties     map[value.PartyID]entity.Party
	Deals       map[value.DealID]entity.Deal
	Completions map[value.DealID]entity.CompletionRecord
	Counter     *entity.SequenceCounter
}

func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	snapshot := Snapshot{
		Parties:     make(map[value.PartyID]entity.Party),
		Deals:       make(map[value.DealID]entity.Deal),
		Completions: make(map[value.DealID]entity.CompletionRecord),
	}

	partyPairs, err := s.kv.List(ctx, keyPrefixParty)
	if err != nil {
		return Snapshot{}, fmt.Errorf("kv.List parties: %w", err)
	}

	for key, b := range partyPairs {
		var dto partyDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return Snapshot{}, fmt.Errorf("party %s: json.Unmarshal: %w", key, err)
		}

		party, err := dto.toEntity()
		if err != nil {
			return Snapshot{}, fmt.Errorf("party %s: %w", key, err)
		}

		snapshot.Parties[party.ID] = party
	}

	dealPairs, err := s.kv.List(ctx, keyPrefixDeal)
	if err != nil {
		return Snapshot{}, fmt.Errorf("kv.List deals: %w", err)
	}

	for key, b := range dealPairs {
		var dto dealDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return Snapshot{}, fmt.Errorf("deal %s: json.Unmarshal: %w", key, err)
		}

		deal, err := dto.toEntity()
		if err != nil {
			return Snapshot{}, fmt.Errorf("deal %s: %w", key, err)
		}

		snapshot.Deals[deal.ID] = deal
	}

	completionPairs, err := s.kv.List(ctx, keyPrefixCompletion)
	if err != nil {
		return Snapshot{}, fmt.Errorf("kv.List completions: %w", err)
	}

	for key, b := range completionPairs {
		var dto completionDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return Snapshot{}, fmt.Errorf("completion %s: json.Unmarshal: %w", key, err)
		}

		rec, err := dto.toEntity()
		if err != nil {
			return Snapshot{}, fmt.Errorf("completion %s: %w", key, err)
		}

		snapshot.Completions[rec.DealID] = rec
	}

	counter, found, err := s.LoadCounter(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if found {
		snapshot.Counter = &counter
	}

	return snapshot, nil
}

// SaveTransition реализует escrow.Storage.
func (s *Store) SaveTransition(
	ctx context.Context,
	parties []entity.Party,
	deal *entity.Deal,
	completion *entity.CompletionRecord,
) error {
	pairs := make(map[string][]byte)

	for _, party := range parties {
		b, err := json.Marshal(newPartyDTO(party))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to encode party")
		}

		pairs[partyStorageKey(party.ID)] = b
	}

	if deal != nil {
		dto := newDealDTO(*deal)

		// Проверяем перед записью то же, что и при чтении.
		if _, err := dto.toEntity(); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "refusing to persist invalid deal")
		}

		b, err := json.Marshal(dto)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to encode deal")
		}

		pairs[dealStorageKey(deal.ID)] = b
	}

	if completion != nil {
		// Запись о расчёте одноразовая: существующая не перезаписывается.
		if _, err := s.kv.Get(ctx, completionStorageKey(completion.DealID)); err == nil {
			return domain.NewError(errcodes.InternalServerError, "completion record already exists")
		} else if !errors.Is(err, ErrKeyNotFound) {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check completion record")
		}

		b, err := json.Marshal(newCompletionDTO(*completion))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to encode completion record")
		}

		pairs[completionStorageKey(completion.DealID)] = b
	}

	if len(pairs) == 0 {
		return nil
	}

	if err := s.kv.Put(ctx, pairs); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to persist transition")
	}

	return nil
}

// LoadCounter и SaveCounter реализуют sequence.CounterStore.
func (s *Store) LoadCounter(ctx context.Context) (entity.SequenceCounter, bool, error) {
	b, err := s.kv.Get(ctx, keySequence)
	if errors.Is(err, ErrKeyNotFound) {
		return entity.SequenceCounter{}, false, nil
	}

	if err != nil {
		return entity.SequenceCounter{}, false, fmt.Errorf("kv.Get sequence: %w", err)
	}

	var dto counterDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return entity.SequenceCounter{}, false, fmt.Errorf("sequence: json.Unmarshal: %w", err)
	}

	counter, err := dto.toEntity()
	if err != nil {
		return entity.SequenceCounter{}, false, fmt.Errorf("sequence: %w", err)
	}

	return counter, true, nil
}

func (s *Store) SaveCounter(ctx context.Context, counter entity.SequenceCounter) error {
	if err := counter.Validate(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "refusing to persist invalid counter")
	}

	b, err := json.Marshal(newCounterDTO(counter))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode counter")
	}

	if err := s.kv.Put(ctx, map[string][]byte{keySequence: b}); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to persist counter")
	}

	return nil
}

const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Backend выбирает реализацию KV по имени из конфигурации.
func Backend(name string) (string, error) {
	switch strings.ToLower(name) {
	case BackendPostgres, BackendRedis, BackendMemory:
		return strings.ToLower(name), nil
	}

	return "", fmt.Errorf("unknown storage backend %q", name)
}
