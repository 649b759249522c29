package fixtures

import (
	"sync"

	"github.com/xbank/xbank/pkg/domain/account"
)

// Notifier records every transaction handed to the fan-out without doing
// anything with it.
type Notifier struct {
	mu       sync.Mutex
	enqueued []*account.Transaction
}

// Enqueue implements notification.Notifier.
func (n *Notifier) Enqueue(tx *account.Transaction) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enqueued = append(n.enqueued, tx)
	return true
}

// Enqueued returns the transactions handed to the notifier, in order.
func (n *Notifier) Enqueued() []*account.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*account.Transaction(nil), n.enqueued...)
}
