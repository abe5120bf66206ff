package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
)

const (
	sellerID = value.PartyID("seller")
	buyerID  = value.PartyID("buyer")
)

func newOpenDeal() entity.Deal {
	return entity.NewDeal(
		"#A7342", sellerID, "gift", "Плюшевый мишка", "", value.AmountFromFloat(25), time.Now(),
	)
}

func TestNewDeal(t *testing.T) {
	rq := require.New(t)

	deal := newOpenDeal()

	rq.Equal(value.StatusOpen, deal.Status)
	rq.Empty(deal.Buyer)
	rq.True(deal.Locked.IsZero())
}

func TestDealLifecycleHappyPath(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	deal := newOpenDeal()

	locked, err := deal.WithLock(buyerID, now)
	rq.NoError(err)
	rq.Equal(value.StatusInProgress, locked.Status)
	rq.Equal(buyerID, locked.Buyer)
	rq.True(locked.Locked.Equal(deal.Price))

	// Исходная копия не изменилась.
	rq.Equal(value.StatusOpen, deal.Status)

	sent, err := locked.WithSent(sellerID, now)
	rq.NoError(err)
	rq.Equal(value.StatusSentToSupport, sent.Status)
	rq.True(sent.Locked.Equal(deal.Price))

	done, err := sent.WithConfirmed(buyerID, now)
	rq.NoError(err)
	rq.Equal(value.StatusDone, done.Status)
	rq.True(done.Locked.IsZero())
	rq.Equal(now, done.CompletedAt)
}

func TestDealInvalidTransitions(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	deal := newOpenDeal()
	locked, err := deal.WithLock(buyerID, now)
	rq.NoError(err)

	testCases := []struct {
		name string
		do   func() error
	}{
		{
			name: "double lock",
			do: func() error {
				_, err := locked.WithLock("another-buyer", now)
				return err
			},
		},
		{
			name: "sent before lock",
			do: func() error {
				_, err := deal.WithSent(sellerID, now)
				return err
			},
		},
		{
			name: "confirm before sent",
			do: func() error {
				_, err := locked.WithConfirmed(buyerID, now)
				return err
			},
		},
		{
			name: "dispute of open deal",
			do: func() error {
				_, err := deal.WithDispute(buyerID)
				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Error(tc.do())
		})
	}
}

func TestDealActorChecks(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	deal := newOpenDeal()
	locked, err := deal.WithLock(buyerID, now)
	rq.NoError(err)

	// Отметить передачу может только продавец.
	_, err = locked.WithSent(buyerID, now)
	rq.Error(err)

	sent, err := locked.WithSent(sellerID, now)
	rq.NoError(err)

	// Подтвердить и оспорить может только покупатель.
	_, err = sent.WithConfirmed(sellerID, now)
	rq.Error(err)

	_, err = sent.WithDispute(sellerID)
	rq.Error(err)

	disputed, err := sent.WithDispute(buyerID)
	rq.NoError(err)
	rq.Equal(value.StatusDisputed, disputed.Status)
	// Средства остаются замороженными.
	rq.True(disputed.Locked.Equal(deal.Price))
}

func TestDealDoubleConfirmFailsOnStatus(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	deal := newOpenDeal()
	locked, err := deal.WithLock(buyerID, now)
	rq.NoError(err)

	sent, err := locked.WithSent(sellerID, now)
	rq.NoError(err)

	done, err := sent.WithConfirmed(buyerID, now)
	rq.NoError(err)

	_, err = done.WithConfirmed(buyerID, now)
	rq.Error(err)
}
