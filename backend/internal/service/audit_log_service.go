package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/repository"
)

// AuditLogService 审计日志查询接口
type AuditLogService interface {
	ListPaged(ctx context.Context, req *dto.PaginationRequest) ([]dto.AuditLogResponse, int64, error)
}

type auditLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditLogService 创建 AuditLogService 实例
func NewAuditLogService(repo *repository.Repository, logger *zap.Logger) AuditLogService {
	return &auditLogService{repo: repo, logger: logger}
}

func (s *auditLogService) ListPaged(ctx context.Context, req *dto.PaginationRequest) ([]dto.AuditLogResponse, int64, error) {
	rows, total, err := s.repo.AuditLog.ListPaged(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AuditLogResponse, 0, len(rows))
	for i := range rows {
		l := &rows[i]
		item := dto.AuditLogResponse{
			LogID:     l.LogID,
			Level:     l.Level,
			Action:    l.Action,
			Message:   l.Message,
			CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
		}
		if l.Detail != nil && json.Valid([]byte(*l.Detail)) {
			item.Detail = json.RawMessage(*l.Detail)
		}
		result = append(result, item)
	}
	return result, total, nil
}
