package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tg_escrow/internal/infrastructure/persistence"
)

func TestMemoryKV(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	kv := persistence.NewMemoryKV()

	_, err := kv.Get(ctx, "missing")
	rq.ErrorIs(err, persistence.ErrKeyNotFound)

	rq.NoError(kv.Put(ctx, map[string][]byte{
		"party:alice": []byte("a"),
		"party:bob":   []byte("b"),
		"deal:#A7342": []byte("d"),
	}))

	b, err := kv.Get(ctx, "party:alice")
	rq.NoError(err)
	rq.Equal([]byte("a"), b)

	parties, err := kv.List(ctx, "party:")
	rq.NoError(err)
	rq.Len(parties, 2)

	deals, err := kv.List(ctx, "deal:")
	rq.NoError(err)
	rq.Len(deals, 1)

	// Возвращаемые срезы — копии: мутация у вызывающего не протекает внутрь.
	b[0] = 'X'

	b2, err := kv.Get(ctx, "party:alice")
	rq.NoError(err)
	rq.Equal([]byte("a"), b2)
}
