// Package events defines the domain events published after financial
// mutations.
package events

import "github.com/xbank/xbank/pkg/domain/account"

// Event is the marker interface for all domain events.
type Event interface {
	Type() string
}

// TypeTransactionCreated is published once for every transaction that reached
// persistence.
const TypeTransactionCreated = "ITEM_CREATED"

// TransactionCreated carries the persisted transaction to interested
// listeners.
type TransactionCreated struct {
	Transaction *account.Transaction
}

// Type implements Event.
func (e TransactionCreated) Type() string { return TypeTransactionCreated }
