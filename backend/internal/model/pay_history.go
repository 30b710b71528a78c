package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 发薪频率
const (
	PayFrequencyMonthly  int16 = 1
	PayFrequencyBiweekly int16 = 2
)

// PayHistory 员工薪资历史表
type PayHistory struct {
	EmployeeID     int32           `gorm:"primaryKey;autoIncrement:false"`
	RateChangeDate time.Time       `gorm:"primaryKey;type:date"`
	Rate           decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	PayFrequency   int16           `gorm:"not null"`
	LastModified   time.Time       `gorm:"not null"`
}

// TableName 表名
func (PayHistory) TableName() string { return "employee_pay_history" }
