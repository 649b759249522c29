package repository

import (
	"context"
	"reflect"
)

// UnitOfWork provides the transaction boundary and repository access in one
// abstraction. Every repository obtained inside Do is bound to the same
// database transaction, so a mutation's writes commit or roll back together.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed to
	// fn hands out repositories bound to that transaction. If fn returns an
	// error, every write made through those repositories is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction when called inside Do.
	GetRepository(repoType reflect.Type) (any, error)

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	NotificationRepository() (NotificationRepository, error)
}
