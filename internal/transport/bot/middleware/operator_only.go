package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// OperatorOnly молча отбрасывает сообщения всех, кроме оператора: для
// остальных привилегированные команды неотличимы от несуществующих.
func OperatorOnly(operatorID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		var userID int64

		if update.Message != nil {
			userID = update.Message.From.ID
		} else if update.CallbackQuery != nil {
			userID = update.CallbackQuery.From.ID
		} else {
			return nil
		}

		if userID == operatorID {
			return ctx.Next(update)
		}

		return nil
	}
}
