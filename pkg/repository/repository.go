// Package repository defines the persistence contracts consumed by the service
// layer. Implementations live in infra/repository.
package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/domain/account"
)

// Pagination selects one page of a listing. Page is 1-based.
type Pagination struct {
	Page int
	Size int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Limit returns the page size clamped to [1, 100].
func (p Pagination) Limit() int {
	switch {
	case p.Size <= 0:
		return defaultPageSize
	case p.Size > maxPageSize:
		return maxPageSize
	}
	return p.Size
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// AccountRepository is the ledger store surface for accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	// FindByKey returns the account with the given business key or
	// account.ErrAccountNotFound.
	FindByKey(ctx context.Context, key string) (*account.Account, error)
	// UpdateBalance performs a versioned balance write. It returns
	// account.ErrStaleAccount when version no longer matches the stored row.
	UpdateBalance(ctx context.Context, key string, balance decimal.Decimal, modifiedBy string, version int64) error
	GetDetail(ctx context.Context, owner, key string) (*account.Account, error)
	ListByOwner(ctx context.Context, owner string) ([]*account.Account, error)
	List(ctx context.Context, p Pagination) ([]*account.Account, error)
	CountAll(ctx context.Context) (int64, error)
	CountByOwner(ctx context.Context, owner string) (int64, error)
}

// TransactionRepository is the ledger store surface for transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	List(ctx context.Context, p Pagination) ([]*account.Transaction, error)
	CountAll(ctx context.Context) (int64, error)
}

// NotificationRepository persists derived notifications. Writes are
// best-effort and never share the mutation's transaction boundary.
type NotificationRepository interface {
	Create(ctx context.Context, n *account.Notification) error
}
