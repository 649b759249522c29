package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xbank/xbank/infra/database"
	infraevents "github.com/xbank/xbank/infra/eventbus"
	infrarepo "github.com/xbank/xbank/infra/repository"
	"github.com/xbank/xbank/pkg/config"
	"github.com/xbank/xbank/pkg/domain/events"
	"github.com/xbank/xbank/pkg/notification"
	accountsvc "github.com/xbank/xbank/pkg/service/account"
	transactionsvc "github.com/xbank/xbank/pkg/service/transaction"
)

// App bundles the running services and the resources behind them.
type App struct {
	Accounts     *accountsvc.Service
	Transactions *transactionsvc.Service
	Worker       *notification.Worker

	db    *gorm.DB
	redis *redis.Client
}

// New connects the ledger store, starts the fan-out worker, registers the
// optional Redis event mirror and builds the services.
func New(cfg *config.App) (*App, error) {
	logger := NewLogger(cfg.Log)

	db, err := database.New(cfg.DB)
	if err != nil {
		return nil, err
	}

	bus := infraevents.NewMemoryBus(logger)
	worker := notification.NewWorker(
		infrarepo.NewNotificationRepository(db),
		cfg.Notification.QueueSize,
		cfg.Notification.Workers,
		logger,
	)

	var client *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			worker.Close()
			return nil, err
		}
		opts.DialTimeout = cfg.Redis.DialTimeout
		opts.ReadTimeout = cfg.Redis.ReadTimeout
		opts.WriteTimeout = cfg.Redis.WriteTimeout
		client = redis.NewClient(opts)
		mirror := infraevents.NewStreamPublisher(client, cfg.Redis.Stream, logger)
		bus.Subscribe(events.TypeTransactionCreated, mirror.Handler())
		logger.Info("event mirror enabled", "stream", cfg.Redis.Stream)
	}

	deps := config.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: bus,
		Notifier: worker,
		Logger:   logger,
		Config:   cfg,
	}
	return &App{
		Accounts:     accountsvc.NewService(deps),
		Transactions: transactionsvc.NewService(deps),
		Worker:       worker,
		db:           db,
		redis:        client,
	}, nil
}

// Close drains the fan-out worker and releases connections.
func (a *App) Close() {
	a.Worker.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
