package dto

import "encoding/json"

// AuditLogResponse 审计日志
type AuditLogResponse struct {
	LogID     int64           `json:"logId"`
	Level     string          `json:"level"`
	Action    string          `json:"action"`
	Message   string          `json:"message"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt string          `json:"createdAt"`
}
