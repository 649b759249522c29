// Package account implements the balance mutation engine: transfer, withdraw
// and deposit against the ledger store, plus account creation and read-only
// queries.
//
// Every mutation follows the same pipeline: resolve the acting identity,
// validate the command, then inside one unit of work load the account, check
// the balance invariant, persist the transaction record FIRST and only then
// write the balance update(s). On success the engine fans out exactly once:
// a synchronous domain event on the bus and an asynchronous, best-effort
// notification via the fan-out worker.
//
// Balance writes are optimistic: each carries the version the account was read
// at, and the whole mutation is retried a bounded number of times when a
// concurrent writer got there first. This keeps the non-negative balance
// invariant under concurrent mutations of one account.
package account

import (
	"context"
	"errors"
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

// Service is the balance mutation engine and account query facade.
type Service struct {
	uow             repository.UnitOfWork
	bus             eventbus.EventBus
	notifier        notification.Notifier
	validate        *validator.Validate
	logger          *slog.Logger
	systemIdentity  string
	defaultCurrency currency.Code
	maxRetries      int
}

// NewService creates a Service from the dependency bundle.
func NewService(deps config.Deps) *Service {
	code := currency.Code(deps.Config.DefaultCurrency)
	if !currency.IsValidFormat(code.String()) {
		code = currency.Default
	}
	retries := deps.Config.MaxMutationRetries
	if retries < 1 {
		retries = 1
	}
	return &Service{
		uow:             deps.Uow,
		bus:             deps.EventBus,
		notifier:        deps.Notifier,
		validate:        validator.New(),
		logger:          deps.Logger.With("service", "account"),
		systemIdentity:  deps.Config.SystemIdentity,
		defaultCurrency: code,
		maxRetries:      retries,
	}
}

// resolveIdentity applies the system-identity fallback rules. Transfers pass
// allowSystem=false: they require a concrete caller identity.
func (s *Service) resolveIdentity(identity string, allowSystem bool) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		if !allowSystem {
			return "", account.ErrUserNotFound
		}
		identity = strings.TrimSpace(s.systemIdentity)
	}
	if identity == "" {
		return "", account.ErrUserNotFound
	}
	return identity, nil
}

// CreateAccount opens a new account owned by the acting identity. A duplicate
// business key fails with account.ErrAccountExists.
func (s *Service) CreateAccount(ctx context.Context, identity string, cmd CreateAccountCommand) (*account.Account, error) {
	identity, err := s.resolveIdentity(identity, true)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(cmd); err != nil {
		return nil, err
	}
	if cmd.Balance.Sign() < 0 {
		return nil, account.ErrAmountMustBePositive
	}
	code := currency.Code(cmd.Currency)
	if code == "" {
		code = s.defaultCurrency
	}
	logger := s.logger.With("operation", "create_account", "identity", identity, "account", cmd.Account)

	a := account.New(cmd.Account, identity, cmd.Action, code)
	a.Balance = cmd.Balance
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		_, err = accounts.FindByKey(ctx, cmd.Account)
		if err == nil {
			return account.ErrAccountExists
		}
		if !errors.Is(err, account.ErrAccountNotFound) {
			return err
		}
		return accounts.Create(ctx, a)
	})
	if err != nil {
		logger.Error("create account failed", "error", err)
		return nil, err
	}
	logger.Info("account created", "currency", a.Currency)
	return a, nil
}

// Transfer debits cmd.Account and credits cmd.ToAccount by cmd.Amount within
// one unit of work, recording the transaction before either balance write.
// It returns the updated SOURCE account; callers needing the destination state
// must query it separately.
func (s *Service) Transfer(ctx context.Context, identity string, cmd TransferCommand) (*account.Account, error) {
	identity, err := s.resolveIdentity(identity, false)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(cmd); err != nil {
		return nil, err
	}
	if cmd.Amount.Sign() <= 0 {
		return nil, account.ErrAmountMustBePositive
	}
	logger := s.logger.With(
		"operation", "transfer",
		"identity", identity,
		"account", cmd.Account,
		"to_account", cmd.ToAccount,
		"amount", cmd.Amount,
	)

	var (
		src *account.Transaction
		out *account.Account
	)
	err = s.withRetry(logger, func() error {
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			transactions, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			from, err := accounts.FindByKey(ctx, cmd.Account)
			if err != nil {
				return err
			}
			if !from.CanDebit(cmd.Amount) {
				return account.ErrInsufficientFunds
			}
			rec := account.NewTransaction(
				account.ActionTransfer, identity, cmd.Account, cmd.ToAccount, cmd.Amount, from.Currency)
			if err := transactions.Create(ctx, rec); err != nil {
				return err
			}
			debited := from.Balance.Sub(cmd.Amount)
			if err := accounts.UpdateBalance(ctx, from.Account, debited, identity, from.Version); err != nil {
				return err
			}
			dest, err := accounts.FindByKey(ctx, cmd.ToAccount)
			if err != nil {
				return err
			}
			credited := dest.Balance.Add(cmd.Amount)
			if err := accounts.UpdateBalance(ctx, dest.Account, credited, identity, dest.Version); err != nil {
				return err
			}
			from.Balance = debited
			from.Version++
			from.LastModifiedBy = identity
			src, out = rec, from
			return nil
		})
	})
	if err != nil {
		logger.Error("transfer failed", "error", err)
		return nil, err
	}
	s.fanOut(ctx, src)
	logger.Info("transfer completed", "transaction_id", src.ID)
	return out, nil
}

// Withdraw debits cmd.Amount from cmd.Account. An absent identity falls back
// to the configured system identity.
func (s *Service) Withdraw(ctx context.Context, identity string, cmd WithdrawCommand) (*account.Account, error) {
	return s.mutate(ctx, identity, account.ActionWithdraw, cmd.Account, cmd.Amount)
}

// Deposit credits cmd.Amount to cmd.Account. Deposits are unconditionally
// accepted: there is no sufficiency check.
func (s *Service) Deposit(ctx context.Context, identity string, cmd DepositCommand) (*account.Account, error) {
	return s.mutate(ctx, identity, account.ActionDeposit, cmd.Account, cmd.Amount)
}

// mutate is the shared single-account pipeline behind Withdraw and Deposit.
func (s *Service) mutate(ctx context.Context, identity string, action account.Action, key string, amount decimal.Decimal) (*account.Account, error) {
	identity, err := s.resolveIdentity(identity, true)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, account.ErrAccountNotFound
	}
	if amount.Sign() <= 0 {
		return nil, account.ErrAmountMustBePositive
	}
	logger := s.logger.With(
		"operation", action.String(),
		"identity", identity,
		"account", key,
		"amount", amount,
	)

	var (
		rec *account.Transaction
		out *account.Account
	)
	err = s.withRetry(logger, func() error {
		return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			transactions, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			acct, err := accounts.FindByKey(ctx, key)
			if err != nil {
				return err
			}
			var balance decimal.Decimal
			switch action {
			case account.ActionWithdraw:
				if !acct.CanDebit(amount) {
					return account.ErrInsufficientFunds
				}
				balance = acct.Balance.Sub(amount)
			default:
				balance = acct.Balance.Add(amount)
			}
			tx := account.NewTransaction(action, identity, key, key, amount, acct.Currency)
			if err := transactions.Create(ctx, tx); err != nil {
				return err
			}
			if err := accounts.UpdateBalance(ctx, acct.Account, balance, identity, acct.Version); err != nil {
				return err
			}
			acct.Balance = balance
			acct.Version++
			acct.LastModifiedBy = identity
			rec, out = tx, acct
			return nil
		})
	})
	if err != nil {
		logger.Error("mutation failed", "error", err)
		return nil, err
	}
	s.fanOut(ctx, rec)
	logger.Info("mutation completed", "transaction_id", rec.ID)
	return out, nil
}

// withRetry reruns fn while it loses the optimistic version race, up to the
// configured number of attempts.
func (s *Service) withRetry(logger *slog.Logger, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = fn()
		if !errors.Is(err, account.ErrStaleAccount) {
			return err
		}
		logger.Warn("account version is stale, retrying", "attempt", attempt)
	}
	return err
}

// fanOut publishes the domain event synchronously and hands the transaction to
// the notification worker. It runs exactly once per successful mutation and
// never fails the caller.
func (s *Service) fanOut(ctx context.Context, tx *account.Transaction) {
	if err := s.bus.Publish(ctx, events.TransactionCreated{Transaction: tx}); err != nil {
		s.logger.Error("failed to publish transaction event",
			"transaction_id", tx.ID, "error", err)
	}
	s.notifier.Enqueue(tx)
}
