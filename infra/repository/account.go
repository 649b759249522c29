package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/repository"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates the gorm-backed account repository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := toAccountModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *accountRepository) FindByKey(ctx context.Context, key string) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).First(&m, "account = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toAccountDomain(&m), nil
}

// UpdateBalance writes the balance only when the stored version still matches
// the one the caller read. Zero affected rows means a concurrent writer won
// the race.
func (r *accountRepository) UpdateBalance(ctx context.Context, key string, balance decimal.Decimal, modifiedBy string, version int64) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("account = ? AND version = ?", key, version).
		Updates(map[string]any{
			"balance":          balance,
			"version":          version + 1,
			"last_modified_by": modifiedBy,
		})
	if res.Error != nil {
		return fmt.Errorf("update balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrStaleAccount
	}
	return nil
}

func (r *accountRepository) GetDetail(ctx context.Context, owner, key string) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).First(&m, "owner = ? AND account = ?", owner, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account detail: %w", err)
	}
	return toAccountDomain(&m), nil
}

func (r *accountRepository) ListByOwner(ctx context.Context, owner string) ([]*account.Account, error) {
	var ms []Account
	if err := r.db.WithContext(ctx).Where("owner = ?", owner).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list accounts by owner: %w", err)
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, toAccountDomain(&ms[i]))
	}
	return out, nil
}

func (r *accountRepository) List(ctx context.Context, p repository.Pagination) ([]*account.Account, error) {
	var ms []Account
	err := r.db.WithContext(ctx).
		Order("account").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, toAccountDomain(&ms[i]))
	}
	return out, nil
}

func (r *accountRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Account{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (r *accountRepository) CountByOwner(ctx context.Context, owner string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Account{}).Where("owner = ?", owner).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count accounts by owner: %w", err)
	}
	return n, nil
}
