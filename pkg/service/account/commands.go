package account

import "github.com/shopspring/decimal"

// CreateAccountCommand opens a new account. Balance is the opening balance and
// must not be negative. An empty Currency falls back to the configured
// default.
type CreateAccountCommand struct {
	Account  string `validate:"required"`
	Currency string `validate:"omitempty,len=3,uppercase"`
	Action   int
	Balance  decimal.Decimal
}

// TransferCommand moves Amount from Account to ToAccount.
type TransferCommand struct {
	Account   string `validate:"required"`
	ToAccount string `validate:"required"`
	Amount    decimal.Decimal
}

// WithdrawCommand debits Amount from Account.
type WithdrawCommand struct {
	Account string `validate:"required"`
	Amount  decimal.Decimal
}

// DepositCommand credits Amount to Account.
type DepositCommand struct {
	Account string `validate:"required"`
	Amount  decimal.Decimal
}
