package server

import (
	"fmt"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"

	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/value"
	"tg_escrow/pkg/errcodes"
	"tg_escrow/pkg/lox"
	"tg_escrow/pkg/rest"
)

func newRESTDeal(deal entity.Deal) rest.Deal {
	return rest.Deal{
		ID:          deal.ID.String(),
		Seller:      deal.Seller.String(),
		Buyer:       deal.Buyer.String(),
		Type:        deal.Type,
		Title:       deal.Title,
		Description: deal.Description,
		Price:       deal.Price.String(),
		Status:      deal.Status.String(),
		Locked:      deal.Locked.String(),
		CreatedAt:   deal.CreatedAt,
		LockedAt:    optionalTime(deal.LockedAt),
		SentAt:      optionalTime(deal.SentAt),
		CompletedAt: optionalTime(deal.CompletedAt),
	}
}

func newRESTDeals(deals []entity.Deal) []rest.Deal {
	return lox.Map(deals, newRESTDeal)
}

func newRESTCompletion(rec entity.CompletionRecord) rest.CompletionRecord {
	return rest.CompletionRecord{
		DealID:      rec.DealID.String(),
		Seller:      rec.Seller.String(),
		Buyer:       rec.Buyer.String(),
		Amount:      rec.Amount.String(),
		Title:       rec.Title,
		Description: rec.Description,
		CompletedAt: rec.CompletedAt,
	}
}

func newDomainCreateDeal(request rest.CreateDealRequest) (value.PartyID, value.Amount, error) {
	seller, err := value.ParsePartyID(request.Seller)
	if err != nil {
		return "", value.Amount{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParsePartyID: %w", err),
			failure.WithCode(errcodes.InvalidPartyID),
		)
	}

	price, err := parseAmount(request.Price)
	if err != nil {
		return "", value.Amount{}, err
	}

	return seller, price, nil
}

// parseDealID принимает id и с решёткой, и без: в URL "#" требует
// экранирования, поэтому UI обычно шлёт голый "A7342".
func parseDealID(raw string) (value.DealID, error) {
	if !strings.HasPrefix(raw, "#") {
		raw = "#" + raw
	}

	id, err := value.ParseDealID(raw)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseDealID: %w", err),
			failure.WithCode(errcodes.InvalidDealID),
		)
	}

	return id, nil
}

func parsePartyID(raw string) (value.PartyID, error) {
	id, err := value.ParsePartyID(raw)
	if err != nil {
		return "", failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParsePartyID: %w", err),
			failure.WithCode(errcodes.InvalidPartyID),
		)
	}

	return id, nil
}

func parseAmount(raw string) (value.Amount, error) {
	amount, err := value.ParseAmount(raw)
	if err != nil {
		return value.Amount{}, failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("value.ParseAmount: %w", err),
			failure.WithCode(errcodes.InvalidAmount),
		)
	}

	return amount, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
