package config

import (
	"log/slog"

	"github.com/xbank/xbank/pkg/eventbus"
	"github.com/xbank/xbank/pkg/notification"
	"github.com/xbank/xbank/pkg/repository"
)

// Deps holds the infrastructure dependencies services are built from.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.EventBus
	Notifier notification.Notifier
	Logger   *slog.Logger
	Config   *App
}
