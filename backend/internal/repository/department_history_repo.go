package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"peopledesk/backend/internal/model"
)

// DepartmentHistoryRow 分页查询结果行，关联员工和部门
type DepartmentHistoryRow struct {
	EmployeeID     int32
	FirstName      string
	LastName       string
	DepartmentID   int16
	DepartmentName string
	GroupName      string
	ShiftID        int16
	StartDate      time.Time
	EndDate        *time.Time
}

// DepartmentHistoryRepository 调动记录数据访问接口
type DepartmentHistoryRepository interface {
	List(ctx context.Context) ([]model.DepartmentHistory, error)
	GetByKey(ctx context.Context, key model.DepartmentHistoryKey) (*model.DepartmentHistory, error)
	Exists(ctx context.Context, key model.DepartmentHistoryKey) (bool, error)
	// CloseOpen 结束该员工在 startDate 当天及之前开始的全部在任记录，返回关闭条数
	CloseOpen(ctx context.Context, employeeID int32, startDate, now time.Time) (int64, error)
	Create(ctx context.Context, h *model.DepartmentHistory) error
	UpdateEndDate(ctx context.Context, key model.DepartmentHistoryKey, endDate *time.Time, now time.Time) error
	Delete(ctx context.Context, key model.DepartmentHistoryKey) error
	// CountOpenExcluding 统计该员工除 key 以外的在任记录数
	CountOpenExcluding(ctx context.Context, key model.DepartmentHistoryKey) (int64, error)
	GetOpenByEmployee(ctx context.Context, employeeID int32) (*model.DepartmentHistory, error)
	ListByEmployee(ctx context.Context, employeeID int32) ([]model.DepartmentHistory, error)
	ListPaged(ctx context.Context, search string, offset, limit int) ([]DepartmentHistoryRow, int64, error)
}

type departmentHistoryRepo struct {
	db *gorm.DB
}

// NewDepartmentHistoryRepo 创建 DepartmentHistoryRepository 实例
func NewDepartmentHistoryRepo(db *gorm.DB) DepartmentHistoryRepository {
	return &departmentHistoryRepo{db: db}
}

func whereKey(db *gorm.DB, key model.DepartmentHistoryKey) *gorm.DB {
	return db.Where(
		"employee_id = ? AND department_id = ? AND shift_id = ? AND start_date = ?",
		key.EmployeeID, key.DepartmentID, key.ShiftID, key.StartDate,
	)
}

func (r *departmentHistoryRepo) List(ctx context.Context) ([]model.DepartmentHistory, error) {
	var rows []model.DepartmentHistory
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("employee_id ASC").
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *departmentHistoryRepo) GetByKey(ctx context.Context, key model.DepartmentHistoryKey) (*model.DepartmentHistory, error) {
	var h model.DepartmentHistory
	err := whereKey(r.db.WithContext(ctx).Preload("Department"), key).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *departmentHistoryRepo) Exists(ctx context.Context, key model.DepartmentHistoryKey) (bool, error) {
	var count int64
	err := whereKey(r.db.WithContext(ctx).Model(&model.DepartmentHistory{}), key).
		Count(&count).Error
	return count > 0, err
}

func (r *departmentHistoryRepo) CloseOpen(ctx context.Context, employeeID int32, startDate, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.DepartmentHistory{}).
		Where("employee_id = ? AND end_date IS NULL AND start_date <= ?", employeeID, startDate).
		Updates(map[string]interface{}{
			"end_date":      startDate,
			"last_modified": now,
		})
	return res.RowsAffected, res.Error
}

func (r *departmentHistoryRepo) Create(ctx context.Context, h *model.DepartmentHistory) error {
	return r.db.WithContext(ctx).Omit("Employee", "Department").Create(h).Error
}

func (r *departmentHistoryRepo) UpdateEndDate(ctx context.Context, key model.DepartmentHistoryKey, endDate *time.Time, now time.Time) error {
	res := whereKey(r.db.WithContext(ctx).Model(&model.DepartmentHistory{}), key).
		Updates(map[string]interface{}{
			"end_date":      endDate,
			"last_modified": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *departmentHistoryRepo) Delete(ctx context.Context, key model.DepartmentHistoryKey) error {
	res := whereKey(r.db.WithContext(ctx), key).Delete(&model.DepartmentHistory{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *departmentHistoryRepo) CountOpenExcluding(ctx context.Context, key model.DepartmentHistoryKey) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DepartmentHistory{}).
		Where("employee_id = ? AND end_date IS NULL", key.EmployeeID).
		Not("department_id = ? AND shift_id = ? AND start_date = ?", key.DepartmentID, key.ShiftID, key.StartDate).
		Count(&count).Error
	return count, err
}

func (r *departmentHistoryRepo) GetOpenByEmployee(ctx context.Context, employeeID int32) (*model.DepartmentHistory, error) {
	var h model.DepartmentHistory
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("employee_id = ? AND end_date IS NULL", employeeID).
		Order("start_date DESC").
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *departmentHistoryRepo) ListByEmployee(ctx context.Context, employeeID int32) ([]model.DepartmentHistory, error) {
	var rows []model.DepartmentHistory
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("employee_id = ?", employeeID).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *departmentHistoryRepo) ListPaged(ctx context.Context, search string, offset, limit int) ([]DepartmentHistoryRow, int64, error) {
	base := func() (*gorm.DB, bool) {
		q := r.db.WithContext(ctx).
			Table("employee_department_history AS h").
			Joins("JOIN employees AS e ON e.employee_id = h.employee_id").
			Joins("JOIN departments AS d ON d.department_id = h.department_id")
		return applyEmployeeSearch(q, search, "e")
	}

	q, ok := base()
	if !ok {
		return []DepartmentHistoryRow{}, 0, nil
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]DepartmentHistoryRow, 0, limit)
	if total == 0 {
		return rows, 0, nil
	}

	q, _ = base()
	err := q.
		Select("h.employee_id, e.first_name, e.last_name, h.department_id, d.name AS department_name, d.group_name, h.shift_id, h.start_date, h.end_date").
		Order("e.first_name ASC").
		Order("e.employee_id ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
