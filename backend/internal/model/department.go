package model

import "time"

// Department 部门表
type Department struct {
	DepartmentID int16     `gorm:"primaryKey;autoIncrement:false"  json:"departmentId"`
	Name         string    `gorm:"type:varchar(50);not null"       json:"name"`
	GroupName    string    `gorm:"type:varchar(50);not null"       json:"groupName"`
	LastModified time.Time `gorm:"not null"                        json:"lastModified"`
}

// TableName 表名
func (Department) TableName() string { return "departments" }
