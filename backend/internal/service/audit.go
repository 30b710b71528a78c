package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
)

// Event 业务流程中的一次可记录事件
type Event struct {
	Level   zapcore.Level
	Action  string // 点分操作名，如 "department_history.create"
	Message string
	Err     error
	Fields  []zap.Field
}

// EventRecorder 一次调用同时写入结构化日志和审计日志表
type EventRecorder interface {
	Record(ctx context.Context, e Event)
}

type eventRecorder struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

// NewEventRecorder 创建 EventRecorder 实例
func NewEventRecorder(repo repository.AuditLogRepository, logger *zap.Logger) EventRecorder {
	return &eventRecorder{repo: repo, logger: logger}
}

func (r *eventRecorder) Record(ctx context.Context, e Event) {
	fields := make([]zap.Field, 0, len(e.Fields)+1)
	fields = append(fields, e.Fields...)
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}

	if ce := r.logger.Check(e.Level, e.Message); ce != nil {
		ce.Write(append(fields, zap.String("action", e.Action))...)
	}

	entry := &model.AuditLog{
		Level:     e.Level.String(),
		Action:    e.Action,
		Message:   e.Message,
		Detail:    encodeDetail(fields),
		CreatedAt: time.Now().UTC(),
	}
	// 请求取消后审计记录仍然写入
	if err := r.repo.Create(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("写入审计日志失败",
			zap.String("action", e.Action),
			zap.Error(err),
		)
	}
}

func encodeDetail(fields []zap.Field) *string {
	if len(fields) == 0 {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	raw, err := json.Marshal(enc.Fields)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}
