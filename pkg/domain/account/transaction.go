package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/currency"
)

// Action identifies the kind of money movement a transaction records.
type Action int

const (
	ActionTransfer Action = 1
	ActionWithdraw Action = 2
	ActionDeposit  Action = 3
)

// String returns the lower-case name of the action.
func (a Action) String() string {
	switch a {
	case ActionTransfer:
		return "transfer"
	case ActionWithdraw:
		return "withdraw"
	case ActionDeposit:
		return "deposit"
	default:
		return "unknown"
	}
}

// Transaction result codes.
const (
	ResultSuccess = 1
)

// NoError is the Error field value recorded for a successful transaction.
const NoError = "No error"

// Transaction is the immutable record of one money movement. For withdraw and
// deposit ToAccount equals Account; for transfer it is the destination account.
type Transaction struct {
	ID             uuid.UUID
	Owner          string
	Account        string
	ToAccount      string
	Amount         decimal.Decimal
	Currency       currency.Code
	Action         Action
	TransactAt     time.Time
	Result         int
	Error          string
	CreatedBy      string
	LastModifiedBy string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTransaction builds a successful transaction record for the given movement.
// The record is stamped with the current time and audited with owner.
func NewTransaction(action Action, owner, source, dest string, amount decimal.Decimal, code currency.Code) *Transaction {
	return &Transaction{
		ID:             uuid.New(),
		Owner:          owner,
		Account:        source,
		ToAccount:      dest,
		Amount:         amount,
		Currency:       code,
		Action:         action,
		TransactAt:     time.Now().UTC(),
		Result:         ResultSuccess,
		Error:          NoError,
		CreatedBy:      owner,
		LastModifiedBy: owner,
	}
}
