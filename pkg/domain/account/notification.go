package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification is a best-effort side artifact derived from a successful
// transaction. Delivery and read-state tracking happen elsewhere.
type Notification struct {
	ID        uuid.UUID
	Account   string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTransactionNotification derives the notification for a completed
// transaction. The recipient is the transaction's destination account and the
// title follows a fixed per-action template.
func NewTransactionNotification(tx *Transaction) *Notification {
	n := &Notification{
		ID:      uuid.New(),
		Account: tx.ToAccount,
	}
	at := tx.TransactAt.Format(time.RFC3339)
	switch tx.Action {
	case ActionTransfer:
		n.Title = fmt.Sprintf("%s has transferred to you %s at %s", tx.Account, tx.Amount, at)
	case ActionWithdraw:
		n.Title = fmt.Sprintf("Withdraw %s at %s", tx.Amount, at)
	case ActionDeposit:
		n.Title = fmt.Sprintf("Deposit %s at %s", tx.Amount, at)
	}
	return n
}
