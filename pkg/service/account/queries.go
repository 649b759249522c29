package account

import (
	"context"

	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/repository"
)

// Read-only pass-throughs to the ledger store. These run outside any unit of
// work: a single SELECT needs no transaction boundary.

// CountAccounts returns the total number of accounts.
func (s *Service) CountAccounts(ctx context.Context) (int64, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	return accounts.CountAll(ctx)
}

// CountAccountsByOwner returns the number of accounts held by owner.
func (s *Service) CountAccountsByOwner(ctx context.Context, owner string) (int64, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	return accounts.CountByOwner(ctx, owner)
}

// GetAccountsByOwner lists every account held by owner.
func (s *Service) GetAccountsByOwner(ctx context.Context, owner string) ([]*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.ListByOwner(ctx, owner)
}

// GetAccountDetail returns the account with the given key when held by owner.
func (s *Service) GetAccountDetail(ctx context.Context, owner, key string) (*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.GetDetail(ctx, owner, key)
}

// ListAccounts returns one page of all accounts.
func (s *Service) ListAccounts(ctx context.Context, p repository.Pagination) ([]*account.Account, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return accounts.List(ctx, p)
}
