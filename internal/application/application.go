package application

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"tg_escrow/internal/config"
	"tg_escrow/internal/domain/service/escrow"
	"tg_escrow/internal/domain/service/ledger"
	"tg_escrow/internal/domain/service/sequence"
	"tg_escrow/internal/domain/value"
	"tg_escrow/internal/infrastructure/notifier"
	"tg_escrow/internal/infrastructure/persistence"
	"tg_escrow/internal/server"
	"tg_escrow/internal/transport/bot"
	"tg_escrow/internal/worker"
	"tg_escrow/pkg/application/connectors"
	"tg_escrow/pkg/application/modules"
	"tg_escrow/pkg/contextx"
	"tg_escrow/pkg/logx"
	"tg_escrow/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const logFieldMaxLen = 4096

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	backend, err := persistence.Backend(cfg.Escrow.Storage)
	if err != nil {
		return fmt.Errorf("persistence.Backend: %w", err)
	}

	redisConnector := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}

	var kv persistence.KV

	switch backend {
	case persistence.BackendPostgres:
		postgresConnector := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		defer postgresConnector.Close(ctx)

		kv = persistence.NewPostgresKV(postgresConnector.Client(ctx))
	case persistence.BackendRedis:
		defer redisConnector.Close(ctx)

		kv = persistence.NewRedisKV(redisConnector.Client(ctx))
	case persistence.BackendMemory:
		kv = persistence.NewMemoryKV()
	}

	store := persistence.NewStore(kv)

	snapshot, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("store.Load: %w", err)
	}

	ids, err := sequence.NewGenerator(ctx, store)
	if err != nil {
		return fmt.Errorf("sequence.NewGenerator: %w", err)
	}

	escrowService := escrow.NewService(
		ledger.New(snapshot.Parties),
		escrow.NewDealStore(snapshot.Deals, snapshot.Completions),
		ids,
		store,
		value.PartyID(cfg.Escrow.OperatorID),
	).WithLockTimeout(cfg.Escrow.LockTimeout)

	g, ctx := errgroup.WithContext(ctx)

	// Уведомления и бот живут только вместе: без бота некому доставлять
	// события, и очередь не заводится вовсе.
	if cfg.Bot.Enabled {
		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DatabaseNumber,
		})
		defer asynqClient.Close() //nolint:errcheck

		escrowService.WithNotifier(notifier.NewDispatcher(asynqClient))

		sender, err := notifier.NewTelegramSender(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramSender: %w", err)
		}

		notificationWorker := worker.NewNotificationWorker(sender)

		modules.AsynqServer{
			RedisAddress:  cfg.Redis.Address,
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DatabaseNumber,
		}.Run(ctx, g,
			modules.AsynqQueues{notifier.QueueNotifications: 1},
			modules.AsynqHandler{
				Pattern: notifier.TaskDealEvent,
				Handle:  notificationWorker.HandleDealEvent,
			},
		)

		escrowBot, err := bot.New(cfg.Bot, escrowService)
		if err != nil {
			return fmt.Errorf("bot.New: %w", err)
		}

		g.Go(func() error {
			if err := escrowBot.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("bot.Run: %w", err)
			}

			return nil
		})
	}

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	server.NewServer(server.NewDealServer(escrowService)).RegisterRoutes(router)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:         cfg.HTTP.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
	}.Run(ctx, g)

	logger(ctx).Info("application started")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
