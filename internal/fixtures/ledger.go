// Package fixtures provides in-memory test doubles for the ledger store and
// the notification sink.
package fixtures

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/currency"
	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/repository"
)

// Ledger is an in-memory implementation of repository.UnitOfWork and the
// repositories behind it. Do snapshots the state before running fn and
// restores it when fn fails, mimicking a database rollback.
type Ledger struct {
	mu            sync.Mutex
	accounts      map[string]account.Account
	transactions  []account.Transaction
	notifications []account.Notification

	// Fault injection. StaleWrites fails that many UpdateBalance calls with
	// account.ErrStaleAccount before letting writes through.
	FailTransactionCreate  error
	FailNotificationCreate error
	StaleWrites            int
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[string]account.Account)}
}

// Seed inserts an account with the given balance, bypassing the service layer.
func (l *Ledger) Seed(key, owner, balance string, code currency.Code) *account.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	a := account.Account{
		Account:        key,
		Owner:          owner,
		Balance:        decimal.RequireFromString(balance),
		Currency:       code,
		CreatedBy:      owner,
		LastModifiedBy: owner,
	}
	l.accounts[key] = a
	out := a
	return &out
}

// Account returns a copy of the stored account, or nil.
func (l *Ledger) Account(key string) *account.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.accounts[key]; ok {
		out := a
		return &out
	}
	return nil
}

// Transactions returns a copy of all persisted transaction records.
func (l *Ledger) Transactions() []account.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]account.Transaction(nil), l.transactions...)
}

// Notifications returns a copy of all persisted notifications.
func (l *Ledger) Notifications() []account.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]account.Notification(nil), l.notifications...)
}

// Do implements repository.UnitOfWork with snapshot/restore semantics.
func (l *Ledger) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	l.mu.Lock()
	accounts := make(map[string]account.Account, len(l.accounts))
	for k, v := range l.accounts {
		accounts[k] = v
	}
	transactions := append([]account.Transaction(nil), l.transactions...)
	notifications := append([]account.Notification(nil), l.notifications...)
	l.mu.Unlock()

	if err := fn(l); err != nil {
		l.mu.Lock()
		l.accounts = accounts
		l.transactions = transactions
		l.notifications = notifications
		l.mu.Unlock()
		return err
	}
	return nil
}

// GetRepository implements repository.UnitOfWork.
func (l *Ledger) GetRepository(repoType reflect.Type) (any, error) {
	switch repoType {
	case reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():
		return &accountStore{l}, nil
	case reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():
		return &transactionStore{l}, nil
	case reflect.TypeOf((*repository.NotificationRepository)(nil)).Elem():
		return &notificationStore{l}, nil
	}
	return nil, fmt.Errorf("no repository registered for type %v", repoType)
}

// AccountRepository implements repository.UnitOfWork.
func (l *Ledger) AccountRepository() (repository.AccountRepository, error) {
	return &accountStore{l}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (l *Ledger) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionStore{l}, nil
}

// NotificationRepository implements repository.UnitOfWork.
func (l *Ledger) NotificationRepository() (repository.NotificationRepository, error) {
	return &notificationStore{l}, nil
}

type accountStore struct{ l *Ledger }

func (s *accountStore) Create(ctx context.Context, a *account.Account) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if _, ok := s.l.accounts[a.Account]; ok {
		return account.ErrAccountExists
	}
	s.l.accounts[a.Account] = *a
	return nil
}

func (s *accountStore) FindByKey(ctx context.Context, key string) (*account.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	a, ok := s.l.accounts[key]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	out := a
	return &out, nil
}

func (s *accountStore) UpdateBalance(ctx context.Context, key string, balance decimal.Decimal, modifiedBy string, version int64) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if s.l.StaleWrites > 0 {
		s.l.StaleWrites--
		return account.ErrStaleAccount
	}
	a, ok := s.l.accounts[key]
	if !ok {
		return account.ErrAccountNotFound
	}
	if a.Version != version {
		return account.ErrStaleAccount
	}
	a.Balance = balance
	a.Version = version + 1
	a.LastModifiedBy = modifiedBy
	s.l.accounts[key] = a
	return nil
}

func (s *accountStore) GetDetail(ctx context.Context, owner, key string) (*account.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	a, ok := s.l.accounts[key]
	if !ok || a.Owner != owner {
		return nil, account.ErrAccountNotFound
	}
	out := a
	return &out, nil
}

func (s *accountStore) ListByOwner(ctx context.Context, owner string) ([]*account.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []*account.Account
	for _, a := range s.l.accounts {
		if a.Owner == owner {
			c := a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *accountStore) List(ctx context.Context, p repository.Pagination) ([]*account.Account, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []*account.Account
	for _, a := range s.l.accounts {
		c := a
		out = append(out, &c)
	}
	return out, nil
}

func (s *accountStore) CountAll(ctx context.Context) (int64, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return int64(len(s.l.accounts)), nil
}

func (s *accountStore) CountByOwner(ctx context.Context, owner string) (int64, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var n int64
	for _, a := range s.l.accounts {
		if a.Owner == owner {
			n++
		}
	}
	return n, nil
}

type transactionStore struct{ l *Ledger }

func (s *transactionStore) Create(ctx context.Context, tx *account.Transaction) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if s.l.FailTransactionCreate != nil {
		return s.l.FailTransactionCreate
	}
	s.l.transactions = append(s.l.transactions, *tx)
	return nil
}

func (s *transactionStore) List(ctx context.Context, p repository.Pagination) ([]*account.Transaction, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	var out []*account.Transaction
	for i := range s.l.transactions {
		c := s.l.transactions[i]
		out = append(out, &c)
	}
	return out, nil
}

func (s *transactionStore) CountAll(ctx context.Context) (int64, error) {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	return int64(len(s.l.transactions)), nil
}

type notificationStore struct{ l *Ledger }

func (s *notificationStore) Create(ctx context.Context, n *account.Notification) error {
	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if s.l.FailNotificationCreate != nil {
		return s.l.FailNotificationCreate
	}
	s.l.notifications = append(s.l.notifications, *n)
	return nil
}
