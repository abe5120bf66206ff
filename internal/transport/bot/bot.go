package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg_escrow/internal/config"
	"tg_escrow/internal/domain/service/escrow"
	"tg_escrow/internal/transport/bot/handler"
	"tg_escrow/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot — Telegram-транспорт поверх эскроу-сервиса. Участник торгов — это
// telegram-аккаунт: его числовой id и есть party id.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

func New(cfg config.Bot, svc *escrow.Service) (*Bot, error) {
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(context.Background(), &telego.GetUpdatesParams{
		Timeout: cfg.PollTimeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("bot.UpdatesViaLongPolling: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("th.NewBotHandler: %w", err)
	}

	commandHandler := handler.New(svc)
	commandHandler.RegisterRoutes(botHandler, cfg.OperatorID)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("botHandler.Start", slog.Any("error", err))
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("botHandler.Stop", slog.Any("error", err))
	}

	return ctx.Err()
}
