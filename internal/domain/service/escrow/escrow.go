package escrow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tg_escrow/internal/domain"
	"tg_escrow/internal/domain/entity"
	"tg_escrow/internal/domain/service/ledger"
	"tg_escrow/internal/domain/value"
	"tg_escrow/pkg/contextx"
	"tg_escrow/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultLockTimeout = 3 * time.Second

// Storage — долговечная запись. Один вызов — одна атомарная единица:
// либо сохраняется всё перечисленное, либо ничего.
type Storage interface {
	SaveTransition(
		ctx context.Context,
		parties []entity.Party,
		deal *entity.Deal,
		completion *entity.CompletionRecord,
	) error
}

type IDGenerator interface {
	Next(ctx context.Context) (value.DealID, error)
}

// Service — эскроу-оркестратор. Единственное место, где мутации леджера и
// сделок складываются в атомарные единицы и где проверяется сохранение
// средств. Дисциплина фиксации: подготовить копии -> долговечно записать ->
// применить в памяти -> уведомить.
type Service struct {
	ledger   *ledger.Ledger
	deals    *DealStore
	ids      IDGenerator
	storage  Storage
	locks    *keyedLocks
	notifier Notifier
	operator value.PartyID
	now      func() time.Time
}

func NewService(
	ledgerSvc *ledger.Ledger,
	deals *DealStore,
	ids IDGenerator,
	storage Storage,
	operator value.PartyID,
) *Service {
	return &Service{
		ledger:   ledgerSvc,
		deals:    deals,
		ids:      ids,
		storage:  storage,
		locks:    newKeyedLocks(defaultLockTimeout),
		notifier: nopNotifier{},
		operator: operator,
		now:      time.Now,
	}
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

func (s *Service) WithLockTimeout(timeout time.Duration) *Service {
	s.locks = newKeyedLocks(timeout)
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateDealInput struct {
	Type        string
	Title       string
	Description string
	Price       value.Amount
}

// CreateDeal создаёт лот в статусе open и возвращает сгенерированный id.
func (s *Service) CreateDeal(
	ctx context.Context,
	seller value.PartyID,
	in CreateDealInput,
) (id value.DealID, err error) {
	defer func() { observe("create_deal", err) }()

	if seller == "" {
		return "", domain.NewValidationError(errcodes.InvalidPartyID, "seller id must not be empty")
	}

	if !in.Price.IsPositive() {
		return "", domain.NewValidationError(errcodes.InvalidPrice, "price must be positive")
	}

	id, err = s.ids.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("ids.Next: %w", err)
	}

	deal := entity.NewDeal(id, seller, in.Type, in.Title, in.Description, in.Price, s.now())

	if err = s.storage.SaveTransition(ctx, nil, &deal, nil); err != nil {
		return "", fmt.Errorf("storage.SaveTransition: %w", err)
	}

	s.deals.Apply(deal)

	s.notify(ctx, DealEvent{
		Kind:   EventDealCreated,
		DealID: deal.ID,
		Seller: deal.Seller,
		Amount: deal.Price,
		Title:  deal.Title,
	})

	return id, nil
}

func (s *Service) Deal(ctx context.Context, id value.DealID) (entity.Deal, error) {
	return s.deals.Deal(id)
}

func (s *Service) OpenDeals(ctx context.Context) []entity.Deal {
	return s.deals.Open()
}

func (s *Service) CompletionOf(ctx context.Context, id value.DealID) (entity.CompletionRecord, error) {
	return s.deals.Completion(id)
}

func (s *Service) BalanceOf(ctx context.Context, id value.PartyID) value.Amount {
	return s.ledger.Balance(id)
}

// Buy атомарно списывает цену с покупателя и замораживает её на сделке.
// Побеждает первый успевший: второй покупатель увидит не-open статус.
func (s *Service) Buy(ctx context.Context, id value.DealID, buyer value.PartyID) (err error) {
	defer func() { observe("buy", err) }()

	if buyer == "" {
		return domain.NewValidationError(errcodes.InvalidPartyID, "buyer id must not be empty")
	}

	// Покупка трогает две единицы сериализации; обе берутся до любых мутаций.
	release, err := s.locks.acquire(ctx, dealKey(id), partyKey(buyer))
	if err != nil {
		return err
	}
	defer release()

	deal, err := s.deals.Deal(id)
	if err != nil {
		return err
	}

	locked, err := deal.WithLock(buyer, s.now())
	if err != nil {
		return err
	}

	debited, err := s.ledger.Debited(buyer, deal.Price)
	if err != nil {
		return err
	}

	if err = verifyConservation(
		s.ledger.Balance(buyer), debited.Balance,
		deal.Locked, locked.Locked,
	); err != nil {
		return err
	}

	if err = s.storage.SaveTransition(ctx, []entity.Party{debited}, &locked, nil); err != nil {
		return fmt.Errorf("storage.SaveTransition: %w", err)
	}

	s.ledger.Apply(debited)
	s.deals.Apply(locked)

	s.notify(ctx, DealEvent{
		Kind:   EventDealLocked,
		DealID: locked.ID,
		Seller: locked.Seller,
		Buyer:  buyer,
		Amount: locked.Locked,
		Title:  locked.Title,
	})

	return nil
}

// MarkSent: продавец сообщает, что передал товар поддержке.
func (s *Service) MarkSent(ctx context.Context, id value.DealID, actor value.PartyID) (err error) {
	defer func() { observe("mark_sent", err) }()

	release, err := s.locks.acquire(ctx, dealKey(id))
	if err != nil {
		return err
	}
	defer release()

	deal, err := s.deals.Deal(id)
	if err != nil {
		return err
	}

	sent, err := deal.WithSent(actor, s.now())
	if err != nil {
		return err
	}

	if err = s.storage.SaveTransition(ctx, nil, &sent, nil); err != nil {
		return fmt.Errorf("storage.SaveTransition: %w", err)
	}

	s.deals.Apply(sent)

	s.notify(ctx, DealEvent{
		Kind:   EventDealSent,
		DealID: sent.ID,
		Seller: sent.Seller,
		Buyer:  sent.Buyer,
		Amount: sent.Locked,
		Title:  sent.Title,
	})

	return nil
}

// ConfirmReceived рассчитывает сделку: зачисляет заморозку продавцу ровно один
// раз, пишет одноразовую запись о расчёте и возвращает зачисленную сумму.
func (s *Service) ConfirmReceived(
	ctx context.Context,
	id value.DealID,
	actor value.PartyID,
) (amount value.Amount, err error) {
	defer func() { observe("confirm_received", err) }()

	// Продавец известен до взятия блокировок и не меняется после создания
	// лота, поэтому набор ключей стабилен.
	deal, err := s.deals.Deal(id)
	if err != nil {
		return value.ZeroAmount(), err
	}

	release, err := s.locks.acquire(ctx, dealKey(id), partyKey(deal.Seller))
	if err != nil {
		return value.ZeroAmount(), err
	}
	defer release()

	// Перечитываем под блокировкой: статус мог уйти вперёд.
	deal, err = s.deals.Deal(id)
	if err != nil {
		return value.ZeroAmount(), err
	}

	confirmed, err := deal.WithConfirmed(actor, s.now())
	if err != nil {
		return value.ZeroAmount(), err
	}

	amount = deal.Locked
	credited := s.ledger.Credited(deal.Seller, amount)

	if err = verifyConservation(
		s.ledger.Balance(deal.Seller), credited.Balance,
		deal.Locked, confirmed.Locked,
	); err != nil {
		return value.ZeroAmount(), err
	}

	record := entity.NewCompletionRecord(confirmed, amount, confirmed.CompletedAt)

	if err = s.storage.SaveTransition(ctx, []entity.Party{credited}, &confirmed, &record); err != nil {
		return value.ZeroAmount(), fmt.Errorf("storage.SaveTransition: %w", err)
	}

	s.ledger.Apply(credited)
	s.deals.Apply(confirmed)
	s.deals.ApplyCompletion(record)

	s.notify(ctx, DealEvent{
		Kind:   EventDealCompleted,
		DealID: confirmed.ID,
		Seller: confirmed.Seller,
		Buyer:  confirmed.Buyer,
		Amount: amount,
		Title:  confirmed.Title,
	})

	return amount, nil
}

// ReportProblem переводит сделку в disputed. Леджер не трогается: средства
// остаются замороженными.
func (s *Service) ReportProblem(ctx context.Context, id value.DealID, actor value.PartyID) (err error) {
	defer func() { observe("report_problem", err) }()

	release, err := s.locks.acquire(ctx, dealKey(id))
	if err != nil {
		return err
	}
	defer release()

	deal, err := s.deals.Deal(id)
	if err != nil {
		return err
	}

	disputed, err := deal.WithDispute(actor)
	if err != nil {
		return err
	}

	if err = s.storage.SaveTransition(ctx, nil, &disputed, nil); err != nil {
		return fmt.Errorf("storage.SaveTransition: %w", err)
	}

	s.deals.Apply(disputed)

	s.notify(ctx, DealEvent{
		Kind:   EventDealDisputed,
		DealID: disputed.ID,
		Seller: disputed.Seller,
		Buyer:  disputed.Buyer,
		Amount: disputed.Locked,
		Title:  disputed.Title,
	})

	return nil
}

// AdminCredit — безусловное пополнение, доступное единственному оператору.
// Любой другой вызывающий получает тот же ответ, что и для несуществующей
// операции: само ограничение не раскрывается.
func (s *Service) AdminCredit(
	ctx context.Context,
	operator, target value.PartyID,
	amount value.Amount,
) (err error) {
	defer func() { observe("admin_credit", err) }()

	if operator != s.operator {
		return domain.NewUnknownOperationError()
	}

	if target == "" {
		return domain.NewValidationError(errcodes.InvalidPartyID, "target id must not be empty")
	}

	if !amount.IsPositive() {
		return domain.NewValidationError(errcodes.InvalidAmount, "credit amount must be positive")
	}

	release, err := s.locks.acquire(ctx, partyKey(target))
	if err != nil {
		return err
	}
	defer release()

	credited := s.ledger.Credited(target, amount)

	if err = s.storage.SaveTransition(ctx, []entity.Party{credited}, nil, nil); err != nil {
		return fmt.Errorf("storage.SaveTransition: %w", err)
	}

	s.ledger.Apply(credited)

	logger(ctx).Info(
		"admin credit applied",
		slog.String("target", target.String()),
		slog.String("amount", amount.String()),
	)

	return nil
}

// verifyConservation: дельта баланса и дельта заморозки должны гаситься.
func verifyConservation(balanceBefore, balanceAfter, lockedBefore, lockedAfter value.Amount) error {
	delta := balanceAfter.Sub(balanceBefore).Add(lockedAfter.Sub(lockedBefore))
	if !delta.IsZero() {
		return domain.NewError(
			errcodes.InternalServerError,
			fmt.Sprintf("conservation violated: delta %s", delta),
		)
	}

	return nil
}

func (s *Service) notify(ctx context.Context, event DealEvent) {
	s.notifier.DealEvent(ctx, event)
}
