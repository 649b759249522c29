// Package repository implements the ledger store contracts on gorm/Postgres.
package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/currency"
	"github.com/xbank/xbank/pkg/domain/account"
)

// Account is the database record for a ledger account. The business key is
// the account number, not the surrogate ID. Version backs the optimistic
// balance writes.
type Account struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	Account        string          `gorm:"uniqueIndex;size:34;not null"`
	Owner          string          `gorm:"index;size:50;not null"`
	Balance        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'VND'"`
	Action         int             `gorm:"not null;default:0"`
	Version        int64           `gorm:"not null;default:0"`
	CreatedBy      string          `gorm:"size:50"`
	LastModifiedBy string          `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Transaction is the immutable database record of one money movement.
type Transaction struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Owner          string          `gorm:"index;size:50;not null"`
	Account        string          `gorm:"index;size:34;not null"`
	ToAccount      string          `gorm:"size:34;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	Action         int             `gorm:"not null"`
	TransactAt     time.Time       `gorm:"index;not null"`
	Result         int             `gorm:"not null"`
	Error          string          `gorm:"size:255"`
	CreatedBy      string          `gorm:"size:50"`
	LastModifiedBy string          `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Notification is the database record for a derived notification.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Account   string    `gorm:"index;size:34;not null"`
	Title     string    `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func toAccountModel(a *account.Account) Account {
	return Account{
		ID:             a.ID,
		Account:        a.Account,
		Owner:          a.Owner,
		Balance:        a.Balance,
		Currency:       a.Currency.String(),
		Action:         a.Action,
		Version:        a.Version,
		CreatedBy:      a.CreatedBy,
		LastModifiedBy: a.LastModifiedBy,
	}
}

func toAccountDomain(m *Account) *account.Account {
	return &account.Account{
		ID:             m.ID,
		Account:        m.Account,
		Owner:          m.Owner,
		Balance:        m.Balance,
		Currency:       currency.Code(m.Currency),
		Action:         m.Action,
		Version:        m.Version,
		CreatedBy:      m.CreatedBy,
		LastModifiedBy: m.LastModifiedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toTransactionModel(tx *account.Transaction) Transaction {
	return Transaction{
		ID:             tx.ID,
		Owner:          tx.Owner,
		Account:        tx.Account,
		ToAccount:      tx.ToAccount,
		Amount:         tx.Amount,
		Currency:       tx.Currency.String(),
		Action:         int(tx.Action),
		TransactAt:     tx.TransactAt,
		Result:         tx.Result,
		Error:          tx.Error,
		CreatedBy:      tx.CreatedBy,
		LastModifiedBy: tx.LastModifiedBy,
	}
}

func toTransactionDomain(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:             m.ID,
		Owner:          m.Owner,
		Account:        m.Account,
		ToAccount:      m.ToAccount,
		Amount:         m.Amount,
		Currency:       currency.Code(m.Currency),
		Action:         account.Action(m.Action),
		TransactAt:     m.TransactAt,
		Result:         m.Result,
		Error:          m.Error,
		CreatedBy:      m.CreatedBy,
		LastModifiedBy: m.LastModifiedBy,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toNotificationModel(n *account.Notification) Notification {
	return Notification{
		ID:      n.ID,
		Account: n.Account,
		Title:   n.Title,
	}
}
