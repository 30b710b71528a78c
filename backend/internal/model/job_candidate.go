package model

import "time"

// JobCandidate 求职候选人；录用后关联员工
type JobCandidate struct {
	JobCandidateID int32     `gorm:"primaryKey;autoIncrement"   json:"jobCandidateId"`
	EmployeeID     *int32    `gorm:"index"                      json:"employeeId"`
	Name           string    `gorm:"type:varchar(100);not null" json:"name"`
	Email          string    `gorm:"type:varchar(254);not null" json:"email"`
	Resume         string    `gorm:"type:text;not null"         json:"resume"`
	LastModified   time.Time `gorm:"not null"                   json:"lastModified"`
}

// TableName 表名
func (JobCandidate) TableName() string { return "job_candidates" }
