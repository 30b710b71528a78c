package service

import (
	"time"

	"go.uber.org/zap"

	"peopledesk/backend/config"
	"peopledesk/backend/internal/repository"
	"peopledesk/backend/pkg/jwt"
)

// notificationTimeout 单次后台通知写入的超时时间
const notificationTimeout = 5 * time.Second

// Service 聚合所有业务服务
type Service struct {
	Auth              AuthService
	Employee          EmployeeService
	Department        DepartmentService
	DepartmentHistory DepartmentHistoryService
	PayHistory        PayHistoryService
	Notification      NotificationService
	AuditLog          AuditLogService
	Export            ExportService
	JobCandidate      JobCandidateService
}

// NewService 基于同一个 Repository 组装全部业务服务
// 未配置 Redis 时 blacklist 可为 nil
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	recorder := NewEventRecorder(repo.AuditLog, logger)
	notifications := NewNotificationService(repo, logger, notificationTimeout)

	return &Service{
		Auth:              NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Employee:          NewEmployeeService(repo, logger),
		Department:        NewDepartmentService(repo, recorder, logger),
		DepartmentHistory: NewDepartmentHistoryService(repo, recorder, notifications, logger),
		PayHistory:        NewPayHistoryService(repo, recorder, logger),
		Notification:      notifications,
		AuditLog:          NewAuditLogService(repo, logger),
		Export:            NewExportService(repo, logger),
		JobCandidate:      NewJobCandidateService(repo, recorder, logger),
	}
}
