package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/service/ledger"
	"tg_escrow/internal/domain/value"
)

func TestLedgerUnknownPartyHasZeroBalance(t *testing.T) {
	rq := require.New(t)

	l := ledger.New(nil)

	rq.True(l.Balance("stranger").IsZero())
	rq.True(l.TotalBalance().IsZero())
}

func TestLedgerStagedMutations(t *testing.T) {
	rq := require.New(t)

	l := ledger.New(map[value.PartyID]entity.Party{
		"alice": {ID: "alice", Balance: value.AmountFromFloat(50)},
	})

	// Credited и Debited только готовят копии, сам леджер не меняется.
	credited := l.Credited("alice", value.AmountFromFloat(10))
	rq.True(credited.Balance.Equal(value.AmountFromFloat(60)))
	rq.True(l.Balance("alice").Equal(value.AmountFromFloat(50)))

	debited, err := l.Debited("alice", value.AmountFromFloat(20))
	rq.NoError(err)
	rq.True(debited.Balance.Equal(value.AmountFromFloat(30)))
	rq.True(l.Balance("alice").Equal(value.AmountFromFloat(50)))

	// Только Apply фиксирует изменение.
	l.Apply(debited)
	rq.True(l.Balance("alice").Equal(value.AmountFromFloat(30)))
}

func TestLedgerInsufficientFunds(t *testing.T) {
	rq := require.New(t)

	l := ledger.New(map[value.PartyID]entity.Party{
		"bob": {ID: "bob", Balance: value.AmountFromFloat(5)},
	})

	_, err := l.Debited("bob", value.AmountFromFloat(5.00000001))
	rq.Error(err)

	// Точное списание всего баланса допустимо.
	debited, err := l.Debited("bob", value.AmountFromFloat(5))
	rq.NoError(err)
	rq.True(debited.Balance.IsZero())
}

func TestLedgerTotalBalance(t *testing.T) {
	rq := require.New(t)

	l := ledger.New(map[value.PartyID]entity.Party{
		"alice": {ID: "alice", Balance: value.AmountFromFloat(1.5)},
		"bob":   {ID: "bob", Balance: value.AmountFromFloat(2.5)},
	})

	rq.True(l.TotalBalance().Equal(value.AmountFromFloat(4)))

	l.Apply(entity.Party{ID: "carol", Balance: value.AmountFromFloat(6)})
	rq.True(l.TotalBalance().Equal(value.AmountFromFloat(10)))
}
