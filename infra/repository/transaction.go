package repository

import (
	"context"
	"fmt"

	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the gorm-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := toTransactionModel(tx)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	tx.CreatedAt = m.CreatedAt
	tx.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *transactionRepository) List(ctx context.Context, p repository.Pagination) ([]*account.Transaction, error) {
	var ms []Transaction
	err := r.db.WithContext(ctx).
		Order("transact_at DESC").
		Limit(p.Limit()).
		Offset(p.Offset()).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]*account.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, toTransactionDomain(&ms[i]))
	}
	return out, nil
}

func (r *transactionRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Transaction{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
