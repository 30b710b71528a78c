package model

import "time"

// Employee 员工表
// 删除员工只置 Active 为 false，不物理删除
type Employee struct {
	EmployeeID int32      `gorm:"primaryKey;autoIncrement:false" json:"employeeId"`
	FirstName  string     `gorm:"type:varchar(50);not null"      json:"firstName"`
	LastName   string     `gorm:"type:varchar(50);not null"      json:"lastName"`
	JobTitle   string     `gorm:"type:varchar(50);not null"      json:"jobTitle"`
	HireDate   *time.Time `gorm:"type:date"                      json:"hireDate,omitempty"`
	Active     bool       `gorm:"not null;default:true"          json:"active"`
	BaseModel
}

// TableName 表名
func (Employee) TableName() string { return "employees" }

// FullName 显示名称
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
