package handler

import "peopledesk/backend/internal/service"

// Handler 聚合所有 HTTP 处理器
type Handler struct {
	Auth              *AuthHandler
	Employee          *EmployeeHandler
	Department        *DepartmentHandler
	DepartmentHistory *DepartmentHistoryHandler
	PayHistory        *PayHistoryHandler
	Notification      *NotificationHandler
	AuditLog          *AuditLogHandler
	Export            *ExportHandler
	JobCandidate      *JobCandidateHandler
}

// NewHandler 创建 Handler 聚合实例
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:              NewAuthHandler(svc.Auth),
		Employee:          NewEmployeeHandler(svc.Employee),
		Department:        NewDepartmentHandler(svc.Department),
		DepartmentHistory: NewDepartmentHistoryHandler(svc.DepartmentHistory),
		PayHistory:        NewPayHistoryHandler(svc.PayHistory),
		Notification:      NewNotificationHandler(svc.Notification),
		AuditLog:          NewAuditLogHandler(svc.AuditLog),
		Export:            NewExportHandler(svc.Export),
		JobCandidate:      NewJobCandidateHandler(svc.JobCandidate),
	}
}
