package model

// 通知类型
const (
	NotificationTypeMovement = "department_movement"
)

// Notification 通知表
type Notification struct {
	NotificationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notificationId"`
	EmployeeID     *int32 `json:"employeeId,omitempty"`
	Type           string `gorm:"type:varchar(50);not null"  json:"type"`
	Title          string `gorm:"type:varchar(200);not null" json:"title"`
	Message        string `gorm:"type:text;not null"         json:"message"`
	IsRead         bool   `gorm:"not null;default:false"     json:"isRead"`
	BaseModel
}

// TableName 表名
func (Notification) TableName() string { return "notifications" }
