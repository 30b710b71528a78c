package model

// 角色
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User 用户表
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"userId"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"         json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'employee'"   json:"role"`
	EmployeeID   *int32 `json:"employeeId,omitempty"`
	BaseModel
}

// TableName 表名
func (User) TableName() string { return "users" }
