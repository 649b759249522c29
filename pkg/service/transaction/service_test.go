package transaction_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/xbank/xbank/infra/eventbus"
	"github.com/xbank/xbank/internal/fixtures"
	"github.com/xbank/xbank/pkg/config"
	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/domain/events"
	"github.com/xbank/xbank/pkg/repository"
	transactionsvc "github.com/xbank/xbank/pkg/service/transaction"
)

func newService(t *testing.T, ledger *fixtures.Ledger, notifier *fixtures.Notifier, published *int) *transactionsvc.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infraevents.NewMemoryBus(logger)
	bus.Subscribe(events.TypeTransactionCreated, func(context.Context, events.Event) {
		*published++
	})
	return transactionsvc.NewService(config.Deps{
		Uow:      ledger,
		EventBus: bus,
		Notifier: notifier,
		Logger:   logger,
		Config:   &config.App{SystemIdentity: "system"},
	})
}

func TestCreateTransaction(t *testing.T) {
	ledger := fixtures.NewLedger()
	notifier := &fixtures.Notifier{}
	published := 0
	svc := newService(t, ledger, notifier, &published)

	got, err := svc.CreateTransaction(context.Background(), "alice", transactionsvc.RecordCommand{
		Account:   "A001",
		ToAccount: "A002",
		Currency:  "VND",
		Action:    account.ActionTransfer,
		Amount:    decimal.RequireFromString("12.34"),
	})
	require.NoError(t, err)
	assert.Equal(t, "A001", got.Owner, "owner is attributed to the source account")
	assert.Equal(t, "alice", got.CreatedBy)
	assert.Equal(t, account.ResultSuccess, got.Result)
	assert.Equal(t, account.NoError, got.Error)

	require.Len(t, ledger.Transactions(), 1)
	assert.Equal(t, 1, published)
	assert.Len(t, notifier.Enqueued(), 1)
}

func TestCreateTransaction_SystemIdentityFallback(t *testing.T) {
	ledger := fixtures.NewLedger()
	published := 0
	svc := newService(t, ledger, &fixtures.Notifier{}, &published)

	got, err := svc.CreateTransaction(context.Background(), "", transactionsvc.RecordCommand{
		Account:   "A001",
		ToAccount: "A001",
		Currency:  "VND",
		Action:    account.ActionDeposit,
		Amount:    decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "system", got.CreatedBy)
}

func TestCreateTransaction_NonPositiveAmount(t *testing.T) {
	ledger := fixtures.NewLedger()
	published := 0
	svc := newService(t, ledger, &fixtures.Notifier{}, &published)

	_, err := svc.CreateTransaction(context.Background(), "alice", transactionsvc.RecordCommand{
		Account:   "A001",
		ToAccount: "A001",
		Currency:  "VND",
		Action:    account.ActionDeposit,
		Amount:    decimal.Zero,
	})
	require.ErrorIs(t, err, account.ErrAmountMustBePositive)
	assert.Empty(t, ledger.Transactions())
	assert.Zero(t, published)
}

func TestListAndCountTransactions(t *testing.T) {
	ledger := fixtures.NewLedger()
	published := 0
	svc := newService(t, ledger, &fixtures.Notifier{}, &published)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTransaction(context.Background(), "alice", transactionsvc.RecordCommand{
			Account:   "A001",
			ToAccount: "A001",
			Currency:  "VND",
			Action:    account.ActionDeposit,
			Amount:    decimal.RequireFromString("1.00"),
		})
		require.NoError(t, err)
	}

	n, err := svc.CountTransactions(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	list, err := svc.ListTransactions(context.Background(), repository.Pagination{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
