package handler

import (
	"tg_escrow/internal/transport/bot/middleware"

	th "github.com/mymmrac/telego/telegohandler"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, operatorID int64) {
	// Команда /start
	bh.HandleMessage(h.OnStart, th.CommandEqual("start"))

	// Команда /sell
	bh.HandleMessage(h.OnSell, th.CommandEqual("sell"))

	// Команда /deals
	bh.HandleMessage(h.OnDeals, th.CommandEqual("deals"))

	// Команда /deal
	bh.HandleMessage(h.OnDeal, th.CommandEqual("deal"))

	// Команда /buy
	bh.HandleMessage(h.OnBuy, th.CommandEqual("buy"))

	// Команда /sent
	bh.HandleMessage(h.OnSent, th.CommandEqual("sent"))

	// Команда /confirm
	bh.HandleMessage(h.OnConfirm, th.CommandEqual("confirm"))

	// Команда /problem
	bh.HandleMessage(h.OnProblem, th.CommandEqual("problem"))

	// Команда /balance
	bh.HandleMessage(h.OnBalance, th.CommandEqual("balance"))

	// Пополнение доступно только оператору; для остальных команда как будто
	// не существует.
	operatorGroup := bh.Group(th.CommandEqual("credit"))
	operatorGroup.Use(middleware.OperatorOnly(operatorID))
	operatorGroup.HandleMessage(h.OnCredit, th.AnyMessage())
}
