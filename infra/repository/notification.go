package repository

import (
	"context"
	"fmt"

	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/repository"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates the gorm-backed notification repository.
// The fan-out worker uses it outside any unit of work: notification writes
// never share a mutation's transaction boundary.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *account.Notification) error {
	m := toNotificationModel(n)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	n.CreatedAt = m.CreatedAt
	n.UpdatedAt = m.UpdatedAt
	return nil
}
