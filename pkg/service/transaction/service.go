// Package transaction records externally-settled movements directly and
// exposes the transaction query facade.
package transaction

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/config"
	"github.com/xbank/xbank/pkg/currency"
	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/domain/events"
	"github.com/xbank/xbank/pkg/eventbus"
	"github.com/xbank/xbank/pkg/notification"
	"github.com/xbank/xbank/pkg/repository"
)

// RecordCommand captures a movement that was settled elsewhere but must still
// appear in the ledger and fan out like any other transaction.
type RecordCommand struct {
	Account   string          `validate:"required"`
	ToAccount string          `validate:"required"`
	Currency  string          `validate:"required,len=3,uppercase"`
	Action    account.Action  `validate:"required"`
	Amount    decimal.Decimal
}

// Service records transactions and serves transaction queries.
type Service struct {
	uow            repository.UnitOfWork
	bus            eventbus.EventBus
	notifier       notification.Notifier
	validate       *validator.Validate
	logger         *slog.Logger
	systemIdentity string
}

// NewService creates a Service from the dependency bundle.
func NewService(deps config.Deps) *Service {
	return &Service{
		uow:            deps.Uow,
		bus:            deps.EventBus,
		notifier:       deps.Notifier,
		validate:       validator.New(),
		logger:         deps.Logger.With("service", "transaction"),
		systemIdentity: deps.Config.SystemIdentity,
	}
}

// CreateTransaction persists the record and fans out once on success. The
// record's owner is the source account, matching how statements attribute
// externally-settled movements; the acting identity lands in the audit fields.
func (s *Service) CreateTransaction(ctx context.Context, identity string, cmd RecordCommand) (*account.Transaction, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = strings.TrimSpace(s.systemIdentity)
	}
	if identity == "" {
		return nil, account.ErrUserNotFound
	}
	if err := s.validate.Struct(cmd); err != nil {
		return nil, err
	}
	if cmd.Amount.Sign() <= 0 {
		return nil, account.ErrAmountMustBePositive
	}
	logger := s.logger.With(
		"operation", "create_transaction",
		"identity", identity,
		"account", cmd.Account,
		"action", cmd.Action.String(),
	)

	tx := account.NewTransaction(
		cmd.Action, cmd.Account, cmd.Account, cmd.ToAccount, cmd.Amount, currency.Code(cmd.Currency))
	tx.CreatedBy = identity
	tx.LastModifiedBy = identity
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return transactions.Create(ctx, tx)
	})
	if err != nil {
		logger.Error("create transaction failed", "error", err)
		return nil, err
	}
	if err := s.bus.Publish(ctx, events.TransactionCreated{Transaction: tx}); err != nil {
		logger.Error("failed to publish transaction event", "transaction_id", tx.ID, "error", err)
	}
	s.notifier.Enqueue(tx)
	logger.Info("transaction recorded", "transaction_id", tx.ID)
	return tx, nil
}

// CountTransactions returns the total number of transaction records.
func (s *Service) CountTransactions(ctx context.Context) (int64, error) {
	transactions, err := s.uow.TransactionRepository()
	if err != nil {
		return 0, err
	}
	return transactions.CountAll(ctx)
}

// ListTransactions returns one page of transaction records, newest first.
func (s *Service) ListTransactions(ctx context.Context, p repository.Pagination) ([]*account.Transaction, error) {
	transactions, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return transactions.List(ctx, p)
}
