package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peopledesk/backend/internal/model"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int32) (*model.Employee, error)
	// LockForUpdate 在当前事务内对员工行加锁，不存在时返回 gorm.ErrRecordNotFound
	LockForUpdate(ctx context.Context, id int32) error
	ListPaged(ctx context.Context, search string, offset, limit int) ([]model.Employee, int64, error)
	SoftDelete(ctx context.Context, id int32, now time.Time) error
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, id int32) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) LockForUpdate(ctx context.Context, id int32) error {
	var emp model.Employee
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("employee_id").
		Where("employee_id = ?", id).
		First(&emp).Error
}

func (r *employeeRepo) ListPaged(ctx context.Context, search string, offset, limit int) ([]model.Employee, int64, error) {
	q, ok := applyEmployeeSearch(
		r.db.WithContext(ctx).Table("employees AS e").Where("e.active = ?", true),
		search, "e",
	)
	if !ok {
		return []model.Employee{}, 0, nil
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	emps := make([]model.Employee, 0, limit)
	if total == 0 {
		return emps, 0, nil
	}

	err := q.Select("e.*").
		Order("e.first_name ASC").
		Order("e.employee_id ASC").
		Offset(offset).Limit(limit).
		Find(&emps).Error
	if err != nil {
		return nil, 0, err
	}
	return emps, total, nil
}

func (r *employeeRepo) SoftDelete(ctx context.Context, id int32, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("employee_id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
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
