package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/patrickmn/go-cache"
)

const (
	dedupeTTL     = 10 * time.Minute
	dedupeCleanup = 30 * time.Minute
)

// TelegramSender отправляет сообщение о переходе в общий чат. Повторные
// доставки одного события (ретраи очереди) подавляются кешем.
type TelegramSender struct {
	bot    *telego.Bot
	chatID int64
	seen   *cache.Cache
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramSender{
		bot:    bot,
		chatID: chatID,
		seen:   cache.New(dedupeTTL, dedupeCleanup),
	}, nil
}

func (s *TelegramSender) Send(ctx context.Context, payload DealEventPayload) error {
	key := payload.DealID + "/" + payload.Kind
	if err := s.seen.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
		// Уже отправляли.
		return nil
	}

	msg := tu.Message(tu.ID(s.chatID), renderDealEvent(payload)).
		WithParseMode(telego.ModeHTML)

	if _, err := s.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (s *TelegramSender) SendText(ctx context.Context, text string) error {
	_, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(s.chatID), text))
	return err
}

func renderDealEvent(p DealEventPayload) string {
	switch p.Kind {
	case "deal_created":
		return fmt.Sprintf(
			"🆕 <b>Новый лот %s</b>\n\n🎁 %s\n💰 Цена: %s ⭐",
			p.DealID, p.Title, p.Amount,
		)
	case "deal_locked":
		return fmt.Sprintf(
			"🔒 <b>Лот %s куплен</b>\n\n🎁 %s\n💰 В эскроу: %s ⭐",
			p.DealID, p.Title, p.Amount,
		)
	case "deal_sent":
		return fmt.Sprintf(
			"📦 <b>Лот %s передан поддержке</b>\n\n🎁 %s",
			p.DealID, p.Title,
		)
	case "deal_completed":
		return fmt.Sprintf(
			"✅ <b>Сделка %s закрыта</b>\n\n🎁 %s\n💰 Продавцу зачислено: %s ⭐",
			p.DealID, p.Title, p.Amount,
		)
	case "deal_disputed":
		return fmt.Sprintf(
			"⚠️ <b>Спор по сделке %s</b>\n\n🎁 %s\n💰 Заморожено: %s ⭐",
			p.DealID, p.Title, p.Amount,
		)
	}

	return fmt.Sprintf("Сделка %s: %s", p.DealID, p.Kind)
}
