package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
	"tg_escrow/internal/infrastructure/persistence"
)

func newTestDeal(t *testing.T, status value.DealStatus) entity.Deal {
	t.Helper()

	deal := entity.NewDeal(
		"#A7342", "seller", "gift", "Плюшевый мишка", "почти новый",
		value.AmountFromFloat(25), time.Now().UTC().Truncate(time.Second),
	)

	var err error

	switch status {
	case value.StatusOpen:
	case value.StatusInProgress:
		deal, err = deal.WithLock("buyer", time.Now().UTC())
	case value.StatusSentToSupport:
		deal, err = deal.WithLock("buyer", time.Now().UTC())
		require.NoError(t, err)
		deal, err = deal.WithSent("seller", time.Now().UTC())
	default:
		t.Fatalf("unsupported status %s", status)
	}

	require.NoError(t, err)

	return deal
}

func TestStoreRoundTrip(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := persistence.NewStore(persistence.NewMemoryKV())

	party := entity.Party{ID: "buyer", Balance: value.AmountFromFloat(75.5)}
	deal := newTestDeal(t, value.StatusInProgress)

	rq.NoError(store.SaveTransition(ctx, []entity.Party{party}, &deal, nil))

	snapshot, err := store.Load(ctx)
	rq.NoError(err)

	loadedParty, ok := snapshot.Parties["buyer"]
	rq.True(ok)
	rq.True(loadedParty.Balance.Equal(party.Balance))

	loadedDeal, ok := snapshot.Deals["#A7342"]
	rq.True(ok)
	rq.Equal(deal.Status, loadedDeal.Status)
	rq.Equal(deal.Buyer, loadedDeal.Buyer)
	rq.True(loadedDeal.Locked.Equal(deal.Locked))
	rq.True(loadedDeal.CreatedAt.Equal(deal.CreatedAt))
	rq.Nil(snapshot.Counter)
}

func TestStoreCounterRoundTrip(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := persistence.NewStore(persistence.NewMemoryKV())

	_, found, err := store.LoadCounter(ctx)
	rq.NoError(err)
	rq.False(found)

	counter := entity.SequenceCounter{Letter: 'D', Number: 4321}
	rq.NoError(store.SaveCounter(ctx, counter))

	loaded, found, err := store.LoadCounter(ctx)
	rq.NoError(err)
	rq.True(found)
	rq.Equal(counter, loaded)

	// Битый счётчик не сохраняется.
	rq.Error(store.SaveCounter(ctx, entity.SequenceCounter{Letter: '!', Number: 1}))
}

func TestStoreCompletionIsWriteOnce(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := persistence.NewStore(persistence.NewMemoryKV())

	deal := newTestDeal(t, value.StatusSentToSupport)
	record := entity.NewCompletionRecord(deal, deal.Price, time.Now().UTC())

	rq.NoError(store.SaveTransition(ctx, nil, nil, &record))

	// Повторная запись отклоняется, первый вариант неизменен.
	altered := record
	altered.Amount = value.AmountFromFloat(999)
	rq.Error(store.SaveTransition(ctx, nil, nil, &altered))

	snapshot, err := store.Load(ctx)
	rq.NoError(err)

	loaded, ok := snapshot.Completions[record.DealID]
	rq.True(ok)
	rq.True(loaded.Amount.Equal(deal.Price))
}

func TestStoreRefusesInvalidDeal(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := persistence.NewStore(persistence.NewMemoryKV())

	// Удерживающий средства статус без покупателя и заморозки.
	broken := newTestDeal(t, value.StatusOpen)
	broken.Status = value.StatusInProgress

	rq.Error(store.SaveTransition(ctx, nil, &broken, nil))

	snapshot, err := store.Load(ctx)
	rq.NoError(err)
	rq.Empty(snapshot.Deals)
}

func TestStoreLoadRejectsCorruptRecords(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{
			name:  "party with negative balance",
			key:   "party:evil",
			value: `{"id":"evil","balance":"-1"}`,
		},
		{
			name:  "deal with malformed id",
			key:   "deal:bogus",
			value: `{"id":"bogus","seller":"s","price":"1","status":"open","locked":"0","created_at":"2026-01-02T15:04:05Z"}`,
		},
		{
			name:  "deal with locked mismatch",
			key:   "deal:#B1000",
			value: `{"id":"#B1000","seller":"s","buyer":"b","price":"10","status":"in_progress","locked":"5","created_at":"2026-01-02T15:04:05Z"}`,
		},
		{
			name:  "not json at all",
			key:   "party:junk",
			value: `junk`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			kv := persistence.NewMemoryKV()
			rq.NoError(kv.Put(ctx, map[string][]byte{tc.key: []byte(tc.value)}))

			_, err := persistence.NewStore(kv).Load(ctx)
			rq.Error(err)
		})
	}
}

func TestBackend(t *testing.T) {
	rq := require.New(t)

	for _, name := range []string{"postgres", "redis", "memory", "Postgres", "REDIS"} {
		backend, err := persistence.Backend(name)
		rq.NoError(err)
		rq.Contains([]string{
			persistence.BackendPostgres,
			persistence.BackendRedis,
			persistence.BackendMemory,
		}, backend)
	}

	_, err := persistence.Backend("cassandra")
	rq.Error(err)
}
