package repository

import (
	"context"

	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
)

// AuditLogRepository 审计日志数据访问接口
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListPaged(ctx context.Context, offset, limit int) ([]model.AuditLog, int64, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) ListPaged(ctx context.Context, offset, limit int) ([]model.AuditLog, int64, error) {
	var rows []model.AuditLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at DESC").
		Order("log_id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
