// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

type Deal struct {
	ID          string     `json:"id"`
	Seller      string     `json:"seller"`
	Buyer       string     `json:"buyer,omitempty"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       string     `json:"price"`
	Status      string     `json:"status"`
	Locked      string     `json:"locked"`
	CreatedAt   time.Time  `json:"createdAt"`
	LockedAt    *time.Time `json:"lockedAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type CreateDealRequest struct {
	Seller      string `json:"seller" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
}

type CreateDealResponse struct {
	ID string `json:"id"`
}

type BuyRequest struct {
	Buyer string `json:"buyer" validate:"required"`
}

type ActorRequest struct {
	Actor string `json:"actor" validate:"required"`
}

type ConfirmResponse struct {
	// Amount Сумма, зачисленная продавцу
	Amount string `json:"amount"`
}

type BalanceResponse struct {
	PartyID string `json:"partyId"`
	Balance string `json:"balance"`
}

type AdminCreditRequest struct {
	Operator string `json:"operator" validate:"required"`
	Target   string `json:"target" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
}

type CompletionRecord struct {
	DealID      string    `json:"dealId"`
	Seller      string    `json:"seller"`
	Buyer       string    `json:"buyer"`
	Amount      string    `json:"amount"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CompletedAt time.Time `json:"completedAt"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
