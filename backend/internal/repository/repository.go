package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 聚合所有数据访问接口
type Repository struct {
	db *gorm.DB

	User              UserRepository
	Employee          EmployeeRepository
	Department        DepartmentRepository
	DepartmentHistory DepartmentHistoryRepository
	PayHistory        PayHistoryRepository
	Notification      NotificationRepository
	AuditLog          AuditLogRepository
	JobCandidate      JobCandidateRepository
}

// NewRepository 基于同一个 GORM 实例创建 Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                db,
		User:              NewUserRepo(db),
		Employee:          NewEmployeeRepo(db),
		Department:        NewDepartmentRepo(db),
		DepartmentHistory: NewDepartmentHistoryRepo(db),
		PayHistory:        NewPayHistoryRepo(db),
		Notification:      NewNotificationRepo(db),
		AuditLog:          NewAuditLogRepo(db),
		JobCandidate:      NewJobCandidateRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn，fn 收到绑定事务的 Repository，返回错误即回滚
// 未持有 DB 实例时（测试）直接对自身执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
