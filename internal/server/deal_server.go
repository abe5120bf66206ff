package server

import (
	"context"
	"fmt"
	"net/http"

	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/service/escrow"
	"tg_escrow/internal/domain/value"
	"tg_escrow/pkg/httpx/reply"
	"tg_escrow/pkg/httpx/req"
	"tg_escrow/pkg/rest"
)

type escrowService interface {
	CreateDeal(ctx context.Context, seller value.PartyID, in escrow.CreateDealInput) (value.DealID, error)
	Deal(ctx context.Context, id value.DealID) (entity.Deal, error)
	OpenDeals(ctx context.Context) []entity.Deal
	Buy(ctx context.Context, id value.DealID, buyer value.PartyID) error
	MarkSent(ctx context.Context, id value.DealID, actor value.PartyID) error
	ConfirmReceived(ctx context.Context, id value.DealID, actor value.PartyID) (value.Amount, error)
	ReportProblem(ctx context.Context, id value.DealID, actor value.PartyID) error
	BalanceOf(ctx context.Context, id value.PartyID) value.Amount
	AdminCredit(ctx context.Context, operator, target value.PartyID, amount value.Amount) error
	CompletionOf(ctx context.Context, id value.DealID) (entity.CompletionRecord, error)
}

type DealServer struct {
	escrowService escrowService
}

func NewDealServer(escrowService escrowService) DealServer {
	return DealServer{
		escrowService: escrowService,
	}
}

func (s DealServer) postV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateDealRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	seller, price, err := newDomainCreateDeal(request)
	if err != nil {
		return err
	}

	id, err := s.escrowService.CreateDeal(ctx, seller, escrow.CreateDealInput{
		Type:        request.Type,
		Title:       request.Title,
		Description: request.Description,
		Price:       price,
	})
	if err != nil {
		return fmt.Errorf("escrowService.CreateDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, rest.CreateDealResponse{ID: id.String()})

	return nil
}

func (s DealServer) getV1Deals(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	reply.JSON(ctx, w, http.StatusOK, newRESTDeals(s.escrowService.OpenDeals(ctx)))

	return nil
}

func (s DealServer) getV1Deal(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseDealID(r.PathValue("id"))
	if err != nil {
		return err
	}

	deal, err := s.escrowService.Deal(ctx, id)
	if err != nil {
		return fmt.Errorf("escrowService.Deal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDeal(deal))

	return nil
}

func (s DealServer) postV1DealBuy(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseDealID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var request rest.BuyRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.escrowService.Buy(ctx, id, value.PartyID(request.Buyer)); err != nil {
		return fmt.Errorf("escrowService.Buy: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s DealServer) postV1DealSent(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseDealID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var request rest.ActorRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.escrowService.MarkSent(ctx, id, value.PartyID(request.Actor)); err != nil {
		return fmt.Errorf("escrowService.MarkSent: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s DealServer) postV1DealConfirm(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseDealID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var request rest.ActorRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	amount, err := s.escrowService.ConfirmReceived(ctx, id, value.PartyID(request.Actor))
	if err != nil {
		return fmt.Errorf("escrowService.ConfirmReceived: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ConfirmResponse{Amount: amount.String()})

	return nil
}

func (s DealServer) postV1DealProblem(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseDealID(r.PathValue("id"))
	if err != nil {
		return err
	}

	var request rest.ActorRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.escrowService.ReportProblem(ctx, id, value.PartyID(request.Actor)); err != nil {
		return fmt.Errorf("escrowService.ReportProblem: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s DealServer) getV1DealCompletion(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id, err := parseDealID(r.PathValue("id"))
	if err != nil {
		return err
	}

	record, err := s.escrowService.CompletionOf(ctx, id)
	if err != nil {
		return fmt.Errorf("escrowService.CompletionOf: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCompletion(record))

	return nil
}

func (s DealServer) getV1PartyBalance(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	partyID, err := parsePartyID(r.PathValue("id"))
	if err != nil {
		return err
	}

	balance := s.escrowService.BalanceOf(ctx, partyID)

	reply.JSON(ctx, w, http.StatusOK, rest.BalanceResponse{
		PartyID: partyID.String(),
		Balance: balance.String(),
	})

	return nil
}

func (s DealServer) postV1AdminCredit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AdminCreditRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	amount, err := parseAmount(request.Amount)
	if err != nil {
		return err
	}

	err = s.escrowService.AdminCredit(
		ctx,
		value.PartyID(request.Operator),
		value.PartyID(request.Target),
		amount,
	)
	if err != nil {
		return fmt.Errorf("escrowService.AdminCredit: %w", err)
	}

	reply.OK(w)

	return nil
}
