package domain

import (
	"errors"
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"tg_escrow/internal/domain/value"
	"tg_escrow/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// Ниже — конструкторы ошибок эскроу-ядра. Все они возвращают
// классифицированные ошибки failure, чтобы транспортный слой мог отобразить
// их в коды ответов, а вызывающий — отличить по errcodes.

func NewDealNotFoundError(id value.DealID) error {
	return failure.NewNotFoundError(
		fmt.Sprintf("deal %s not found", id),
		failure.WithCode(errcodes.DealNotFound),
		failure.WithDescription("Deal not found"),
	)
}

// NewInvalidStateError сообщает о повторном или недопустимом переходе:
// сделка в статусе actual, а переход разрешён из expected.
func NewInvalidStateError(id value.DealID, actual value.DealStatus, expected ...value.DealStatus) error {
	states := make([]string, 0, len(expected))
	for _, s := range expected {
		states = append(states, s.String())
	}

	return failure.NewConflictError(
		fmt.Sprintf("deal %s: status is %s, transition allowed from %s",
			id, actual, strings.Join(states, "|")),
		failure.WithCode(errcodes.InvalidDealState),
		failure.WithDescription(fmt.Sprintf("Deal is %s", actual)),
	)
}

func NewInsufficientFundsError(party value.PartyID, balance, price value.Amount) error {
	return failure.NewUnprocessableEntityError(
		fmt.Sprintf("party %s: balance %s is below %s", party, balance, price),
		failure.WithCode(errcodes.InsufficientFunds),
		failure.WithDescription("Insufficient funds"),
	)
}

func NewUnauthorizedActorError(id value.DealID, actor value.PartyID) error {
	return failure.NewForbiddenError(
		fmt.Sprintf("deal %s: party %s is not allowed to perform this transition", id, actor),
		failure.WithCode(errcodes.Forbidden),
		failure.WithDescription("Operation is not allowed for this party"),
	)
}

func NewValidationError(code failure.ErrorCode, message string) error {
	return failure.NewInvalidArgumentError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

// NewUnknownOperationError используется там, где отказ не должен выдавать
// само существование ограничения: ответ неотличим от несуществующей операции.
func NewUnknownOperationError() error {
	return failure.NewNotFoundError(
		"unknown operation",
		failure.WithCode(errcodes.NotFound),
		failure.WithDescription("Not found"),
	)
}

// NewContentionError — таймаут взятия блокировок; операцию можно повторить.
func NewContentionError(keys ...string) error {
	return failure.NewConflictError(
		fmt.Sprintf("lock acquisition timed out: %s", strings.Join(keys, ", ")),
		failure.WithCode(errcodes.TimeoutExceeded),
		failure.WithDescription("Resource is busy, retry later"),
	)
}
