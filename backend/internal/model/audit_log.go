package model

import "time"

// AuditLog 审计日志表，事件记录器的持久化部分
type AuditLog struct {
	LogID     int64     `gorm:"primaryKey;autoIncrement" json:"logId"`
	Level     string    `gorm:"type:varchar(10);not null"  json:"level"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Message   string    `gorm:"type:text;not null"         json:"message"`
	Detail    *string   `gorm:"type:jsonb"                 json:"detail,omitempty"`
	CreatedAt time.Time `gorm:"not null"                   json:"createdAt"`
}

// TableName 表名
func (AuditLog) TableName() string { return "audit_logs" }
