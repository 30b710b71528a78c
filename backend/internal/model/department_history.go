package model

import (
	"fmt"
	"time"
)

// DepartmentHistoryKey 调动记录的自然主键，写入后不可修改
type DepartmentHistoryKey struct {
	EmployeeID   int32
	DepartmentID int16
	ShiftID      int16
	StartDate    time.Time
}

// String 按资源路径格式输出主键
func (k DepartmentHistoryKey) String() string {
	return fmt.Sprintf("%d/%d/%d/%s", k.EmployeeID, k.DepartmentID, k.ShiftID, FormatDate(k.StartDate))
}

// DepartmentHistory 员工部门调动历史表
// 一条记录表示员工在某部门某班次的连续任职区间，EndDate 为 nil 表示仍在任
type DepartmentHistory struct {
	EmployeeID   int32      `gorm:"primaryKey;autoIncrement:false"`
	DepartmentID int16      `gorm:"primaryKey;autoIncrement:false"`
	ShiftID      int16      `gorm:"primaryKey;autoIncrement:false"`
	StartDate    time.Time  `gorm:"primaryKey;type:date"`
	EndDate      *time.Time `gorm:"type:date"`
	LastModified time.Time  `gorm:"not null"`

	Employee   *Employee   `gorm:"foreignKey:EmployeeID;references:EmployeeID"`
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID"`
}

// TableName 表名
func (DepartmentHistory) TableName() string { return "employee_department_history" }

// Key 记录的自然主键
func (h *DepartmentHistory) Key() DepartmentHistoryKey {
	return DepartmentHistoryKey{
		EmployeeID:   h.EmployeeID,
		DepartmentID: h.DepartmentID,
		ShiftID:      h.ShiftID,
		StartDate:    h.StartDate,
	}
}

// IsOpen 员工是否仍在该部门/班次任职
func (h *DepartmentHistory) IsOpen() bool {
	return h.EndDate == nil
}
