package eventbus_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/xbank/xbank/infra/eventbus"
	"github.com/xbank/xbank/pkg/currency"
	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/domain/events"
)

func TestMemoryBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := infraevents.NewMemoryBus(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var got []*account.Transaction
	bus.Subscribe(events.TypeTransactionCreated, func(_ context.Context, e events.Event) {
		got = append(got, e.(events.TransactionCreated).Transaction)
	})
	calls := 0
	bus.Subscribe(events.TypeTransactionCreated, func(context.Context, events.Event) { calls++ })

	tx := account.NewTransaction(account.ActionDeposit, "alice", "A001", "A001",
		decimal.RequireFromString("1.00"), currency.Default)
	err := bus.Publish(context.Background(), events.TransactionCreated{Transaction: tx})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].ID)
	assert.Equal(t, 1, calls)
}

func TestMemoryBus_UnknownTypeIsNoop(t *testing.T) {
	bus := infraevents.NewMemoryBus(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tx := account.NewTransaction(account.ActionDeposit, "alice", "A001", "A001",
		decimal.RequireFromString("1.00"), currency.Default)
	err := bus.Publish(context.Background(), events.TransactionCreated{Transaction: tx})
	assert.NoError(t, err)
}
