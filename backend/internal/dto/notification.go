package dto

// ── 通知 ──

// NotificationListRequest 列表过滤条件
type NotificationListRequest struct {
	Unread bool `form:"unread"`
}

// NotificationResponse 通知信息
type NotificationResponse struct {
	NotificationID string `json:"notificationId"`
	EmployeeID     *int32 `json:"employeeId,omitempty"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt"`
}
