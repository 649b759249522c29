package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/xbank/xbank/infra/eventbus"
	"github.com/xbank/xbank/internal/fixtures"
	"github.com/xbank/xbank/pkg/config"
	"github.com/xbank/xbank/pkg/currency"
	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/domain/events"
	accountsvc "github.com/xbank/xbank/pkg/service/account"
)

type testEnv struct {
	svc      *accountsvc.Service
	ledger   *fixtures.Ledger
	notifier *fixtures.Notifier
	bus      *infraevents.MemoryBus
	events   *int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := fixtures.NewLedger()
	notifier := &fixtures.Notifier{}
	bus := infraevents.NewMemoryBus(logger)
	published := 0
	bus.Subscribe(events.TypeTransactionCreated, func(context.Context, events.Event) {
		published++
	})
	svc := accountsvc.NewService(config.Deps{
		Uow:      ledger,
		EventBus: bus,
		Notifier: notifier,
		Logger:   logger,
		Config: &config.App{
			SystemIdentity:     "system",
			DefaultCurrency:    "VND",
			MaxMutationRetries: 3,
		},
	})
	return &testEnv{svc: svc, ledger: ledger, notifier: notifier, bus: bus, events: &published}
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWithdraw_Success(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)

	got, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("40.00"),
	})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(amount("60.00")), "got balance %s", got.Balance)

	stored := env.ledger.Account("A001")
	assert.True(t, stored.Balance.Equal(amount("60.00")))

	txs := env.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "A001", txs[0].Account)
	assert.Equal(t, "A001", txs[0].ToAccount)
	assert.True(t, txs[0].Amount.Equal(amount("40.00")))
	assert.Equal(t, account.ActionWithdraw, txs[0].Action)
	assert.Equal(t, account.ResultSuccess, txs[0].Result)
	assert.Equal(t, account.NoError, txs[0].Error)
	assert.Equal(t, currency.Default, txs[0].Currency)

	assert.Equal(t, 1, *env.events)
	assert.Len(t, env.notifier.Enqueued(), 1)
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "35.00", currency.Default)

	_, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("1000.00"),
	})
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	assert.True(t, env.ledger.Account("A001").Balance.Equal(amount("35.00")), "balance must be unchanged")
	assert.Empty(t, env.ledger.Transactions(), "no transaction may be persisted")
	assert.Zero(t, *env.events)
	assert.Empty(t, env.notifier.Enqueued())
}

func TestWithdraw_ExactBalance(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "40.00", currency.Default)

	got, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("40.00"),
	})
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestWithdraw_SystemIdentityFallback(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)

	got, err := env.svc.Withdraw(context.Background(), "", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "system", got.LastModifiedBy)

	txs := env.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "system", txs[0].Owner)
}

func TestDeposit_Success(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)

	got, err := env.svc.Deposit(context.Background(), "alice", accountsvc.DepositCommand{
		Account: "A001", Amount: amount("25.50"),
	})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(amount("125.50")))

	txs := env.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, account.ActionDeposit, txs[0].Action)
	assert.Equal(t, 1, *env.events)
}

func TestDeposit_NoSufficiencyCheck(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "0.00", currency.Default)

	got, err := env.svc.Deposit(context.Background(), "alice", accountsvc.DepositCommand{
		Account: "A001", Amount: amount("1000000.00"),
	})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(amount("1000000.00")))
}

func TestDeposit_NonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)

	for _, amt := range []string{"0", "-5.00"} {
		_, err := env.svc.Deposit(context.Background(), "alice", accountsvc.DepositCommand{
			Account: "A001", Amount: amount(amt),
		})
		require.ErrorIs(t, err, account.ErrAmountMustBePositive, "amount %s", amt)
	}
	assert.Empty(t, env.ledger.Transactions())
}

func TestTransfer_Success(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "60.00", currency.Default)
	env.ledger.Seed("A002", "bob", "10.00", currency.Default)

	got, err := env.svc.Transfer(context.Background(), "alice", accountsvc.TransferCommand{
		Account: "A001", ToAccount: "A002", Amount: amount("25.00"),
	})
	require.NoError(t, err)

	// The engine returns the source account.
	assert.Equal(t, "A001", got.Account)
	assert.True(t, got.Balance.Equal(amount("35.00")))

	assert.True(t, env.ledger.Account("A001").Balance.Equal(amount("35.00")))
	assert.True(t, env.ledger.Account("A002").Balance.Equal(amount("35.00")))

	txs := env.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, account.ActionTransfer, txs[0].Action)
	assert.Equal(t, "A001", txs[0].Account)
	assert.Equal(t, "A002", txs[0].ToAccount)
	assert.Equal(t, "alice", txs[0].Owner)

	assert.Equal(t, 1, *env.events)
	require.Len(t, env.notifier.Enqueued(), 1)
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "10.00", currency.Default)
	env.ledger.Seed("A002", "bob", "10.00", currency.Default)

	_, err := env.svc.Transfer(context.Background(), "alice", accountsvc.TransferCommand{
		Account: "A001", ToAccount: "A002", Amount: amount("25.00"),
	})
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.True(t, env.ledger.Account("A001").Balance.Equal(amount("10.00")))
	assert.True(t, env.ledger.Account("A002").Balance.Equal(amount("10.00")))
	assert.Empty(t, env.ledger.Transactions())
}

func TestTransfer_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "60.00", currency.Default)
	env.ledger.Seed("A002", "bob", "10.00", currency.Default)

	// No system-identity fallback for transfers.
	_, err := env.svc.Transfer(context.Background(), "", accountsvc.TransferCommand{
		Account: "A001", ToAccount: "A002", Amount: amount("25.00"),
	})
	require.ErrorIs(t, err, account.ErrUserNotFound)
	assert.Empty(t, env.ledger.Transactions())
}

func TestTransfer_DestinationMissing_RollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "60.00", currency.Default)

	_, err := env.svc.Transfer(context.Background(), "alice", accountsvc.TransferCommand{
		Account: "A001", ToAccount: "NOPE", Amount: amount("25.00"),
	})
	require.ErrorIs(t, err, account.ErrAccountNotFound)

	// The debit and the transaction record must both be rolled back.
	assert.True(t, env.ledger.Account("A001").Balance.Equal(amount("60.00")))
	assert.Empty(t, env.ledger.Transactions())
	assert.Zero(t, *env.events)
}

func TestMutation_TransactionWriteFailure_RollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)
	env.ledger.FailTransactionCreate = errors.New("disk full")

	_, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("40.00"),
	})
	require.Error(t, err)
	assert.True(t, env.ledger.Account("A001").Balance.Equal(amount("100.00")))
	assert.Zero(t, *env.events)
	assert.Empty(t, env.notifier.Enqueued())
}

func TestMutation_StaleVersion_Retries(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)
	env.ledger.StaleWrites = 2

	got, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("40.00"),
	})
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(amount("60.00")))

	// The failed attempts rolled back; exactly one transaction survives.
	require.Len(t, env.ledger.Transactions(), 1)
	assert.Equal(t, 1, *env.events)
}

func TestMutation_StaleVersion_Exhausted(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Default)
	env.ledger.StaleWrites = 10

	_, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("40.00"),
	})
	require.ErrorIs(t, err, account.ErrStaleAccount)
	assert.True(t, env.ledger.Account("A001").Balance.Equal(amount("100.00")))
	assert.Empty(t, env.ledger.Transactions())
}

func TestMutation_AccountNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "NOPE", Amount: amount("1.00"),
	})
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestCreateAccount(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.svc.CreateAccount(context.Background(), "alice", accountsvc.CreateAccountCommand{
		Account: "A001", Balance: amount("100.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, currency.Default, got.Currency)
	assert.True(t, got.Balance.Equal(amount("100.00")))

	_, err = env.svc.CreateAccount(context.Background(), "bob", accountsvc.CreateAccountCommand{
		Account: "A001",
	})
	require.ErrorIs(t, err, account.ErrAccountExists)
}

func TestCreateAccount_NegativeOpeningBalance(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateAccount(context.Background(), "alice", accountsvc.CreateAccountCommand{
		Account: "A001", Balance: amount("-1.00"),
	})
	require.ErrorIs(t, err, account.ErrAmountMustBePositive)
}

func TestCreateAccount_ExplicitCurrency(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.svc.CreateAccount(context.Background(), "alice", accountsvc.CreateAccountCommand{
		Account: "A001", Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, currency.Code("USD"), got.Currency)
}

func TestMutation_UsesAccountCurrency(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Seed("A001", "alice", "100.00", currency.Code("USD"))

	_, err := env.svc.Withdraw(context.Background(), "alice", accountsvc.WithdrawCommand{
		Account: "A001", Amount: amount("40.00"),
	})
	require.NoError(t, err)

	txs := env.ledger.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, currency.Code("USD"), txs[0].Currency)
}
