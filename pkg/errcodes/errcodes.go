package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Коды модуля эскроу.
	DealNotFound      failure.ErrorCode = "DealNotFound"      // Когда ID есть, но сделки нет
	InvalidDealID     failure.ErrorCode = "InvalidDealID"     // Когда пришёл мусор вместо ID
	InvalidDealState  failure.ErrorCode = "InvalidDealState"  // Переход из неподходящего статуса
	InsufficientFunds failure.ErrorCode = "InsufficientFunds" // Не хватает баланса на покупку
	InvalidPrice      failure.ErrorCode = "InvalidPrice"      // Цена должна быть > 0
	InvalidAmount     failure.ErrorCode = "InvalidAmount"     // Сумма не парсится или отрицательная
	InvalidPartyID    failure.ErrorCode = "InvalidPartyID"
)
