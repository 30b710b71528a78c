package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string, now time.Time) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]model.Notification, error) {
	var rows []model.Notification
	q := r.db.WithContext(ctx)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
