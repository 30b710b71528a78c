package repository

import (
	"context"

	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
)

// PayHistoryRepository 薪资历史数据访问接口
type PayHistoryRepository interface {
	Create(ctx context.Context, p *model.PayHistory) error
	ListByEmployee(ctx context.Context, employeeID int32) ([]model.PayHistory, error)
}

type payHistoryRepo struct {
	db *gorm.DB
}

// NewPayHistoryRepo 创建 PayHistoryRepository 实例
func NewPayHistoryRepo(db *gorm.DB) PayHistoryRepository {
	return &payHistoryRepo{db: db}
}

func (r *payHistoryRepo) Create(ctx context.Context, p *model.PayHistory) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *payHistoryRepo) ListByEmployee(ctx context.Context, employeeID int32) ([]model.PayHistory, error) {
	var rows []model.PayHistory
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("rate_change_date DESC").
		Find(&rows).Error
	return rows, err
}
