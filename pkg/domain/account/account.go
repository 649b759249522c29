// Package account contains the core banking entities: Account, Transaction and
// Notification, together with the domain errors raised by balance mutations.
//
// Invariants:
//   - An account balance can never become negative as the result of a withdraw
//     or a transfer debit.
//   - A transaction is immutable once created.
//   - Every balance write bumps the account version; writers must present the
//     version they read (optimistic concurrency).
package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/currency"
)

var (
	// ErrUserNotFound is returned when no usable acting identity is available
	// for a mutation.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountExists is returned when an account with the same business key
	// already exists.
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is returned when an account cannot be found by its
	// business key.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a withdraw or transfer debit would
	// drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountMustBePositive is returned when a mutation amount is zero or
	// negative.
	ErrAmountMustBePositive = errors.New("transaction amount must be positive")

	// ErrStaleAccount is returned by the ledger store when a versioned balance
	// write lost a concurrent race and must be retried.
	ErrStaleAccount = errors.New("account version is stale")
)

// Account is a customer ledger account. The business key is Account, not ID.
type Account struct {
	ID             int64
	Account        string
	Owner          string
	Balance        decimal.Decimal
	Currency       currency.Code
	Action         int
	Version        int64
	CreatedBy      string
	LastModifiedBy string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New creates an account with a zero balance owned by the given identity.
// An empty currency falls back to currency.Default.
func New(key, owner string, action int, code currency.Code) *Account {
	if code == "" {
		code = currency.Default
	}
	return &Account{
		Account:        key,
		Owner:          owner,
		Balance:        decimal.Zero,
		Currency:       code,
		Action:         action,
		CreatedBy:      owner,
		LastModifiedBy: owner,
	}
}

// CanDebit reports whether debiting amount would keep the balance non-negative.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Balance.Sub(amount).Sign() >= 0
}
