package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/xbank/xbank/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share the transaction's
// session; outside Do they use the base connection, which is what the
// read-only query facade wants.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			reflect.TypeOf((*repository.AccountRepository)(nil)).Elem():      func(db *gorm.DB) any { return NewAccountRepository(db) },
			reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem():  func(db *gorm.DB) any { return NewTransactionRepository(db) },
			reflect.TypeOf((*repository.NotificationRepository)(nil)).Elem(): func(db *gorm.DB) any { return NewNotificationRepository(db) },
		},
	}
}

// Do runs fn in a database transaction, providing a UoW bound to it. An error
// from fn rolls back every write made through that UoW.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns a repository of the requested interface type bound to
// the current session.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

// AccountRepository returns the account repository bound to the current session.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.AccountRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.AccountRepository), nil
}

// TransactionRepository returns the transaction repository bound to the current session.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.TransactionRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.TransactionRepository), nil
}

// NotificationRepository returns the notification repository bound to the current session.
func (u *UoW) NotificationRepository() (repository.NotificationRepository, error) {
	repo, err := u.GetRepository(reflect.TypeOf((*repository.NotificationRepository)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return repo.(repository.NotificationRepository), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
