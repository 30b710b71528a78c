package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
)

var ErrNotificationNotFound = errors.New("通知不存在")

// notificationListLimit 单次通知列表的最大条数
const notificationListLimit = 100

// Notifier 异步通知通道，Notify 不阻塞调用方，也不返回错误
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification)
}

// NotificationService 通知投递与收件箱业务接口
type NotificationService interface {
	Notifier
	List(ctx context.Context, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id string) error
	// Wait 等待进行中的投递完成
	Wait()
}

type notificationService struct {
	repo    *repository.Repository
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
	now     func() time.Time
}

// NewNotificationService 创建 NotificationService 实例，timeout 限制每次后台写入
func NewNotificationService(repo *repository.Repository, logger *zap.Logger, timeout time.Duration) NotificationService {
	return &notificationService{repo: repo, logger: logger, timeout: timeout, now: time.Now}
}

func (s *notificationService) Notify(ctx context.Context, n *model.Notification) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if err := s.repo.Notification.Create(ctx, n); err != nil {
			s.logger.Warn("投递通知失败",
				zap.String("type", n.Type),
				zap.Error(err),
			)
		}
	}()
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

func (s *notificationService) List(ctx context.Context, unreadOnly bool) ([]dto.NotificationResponse, error) {
	rows, err := s.repo.Notification.List(ctx, unreadOnly, notificationListLimit)
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.NotificationResponse, 0, len(rows))
	for i := range rows {
		n := &rows[i]
		result = append(result, dto.NotificationResponse{
			NotificationID: n.NotificationID,
			EmployeeID:     n.EmployeeID,
			Type:           n.Type,
			Title:          n.Title,
			Message:        n.Message,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotificationNotFound
	}
	if err := s.repo.Notification.MarkRead(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("标记通知已读失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
