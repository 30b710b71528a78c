package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
	pkgerrors "peopledesk/backend/pkg/errors"
)

// ── 薪资历史模块业务错误 ──

var (
	ErrPayRateOutOfRange     = errors.New("薪资标准必须在 6.50 到 200.00 之间")
	ErrInvalidPayFrequency   = errors.New("payFrequency 必须为 1（月薪）或 2（双周薪）")
	ErrRateDateBeforeFloor   = errors.New("rateChangeDate 早于允许存储的最早日期")
	ErrInvalidRateChangeDate = errors.New("rateChangeDate 无效")
	ErrDuplicatePayHistory   = errors.New("该日期的薪资记录已存在")
)

var (
	minPayRate = decimal.RequireFromString("6.50")
	maxPayRate = decimal.RequireFromString("200.00")
)

// PayHistoryService 薪资历史业务接口
type PayHistoryService interface {
	ListByEmployee(ctx context.Context, employeeID int32) ([]dto.PayHistoryResponse, error)
	Create(ctx context.Context, employeeID int32, req *dto.CreatePayHistoryRequest) (*dto.PayHistoryResponse, error)
}

type payHistoryService struct {
	repo     *repository.Repository
	recorder EventRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewPayHistoryService 创建 PayHistoryService 实例
func NewPayHistoryService(repo *repository.Repository, recorder EventRecorder, logger *zap.Logger) PayHistoryService {
	return &payHistoryService{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

func (s *payHistoryService) ListByEmployee(ctx context.Context, employeeID int32) ([]dto.PayHistoryResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	rows, err := s.repo.PayHistory.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询薪资历史失败", zap.Int32("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PayHistoryResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toPayHistoryResponse(&rows[i]))
	}
	return result, nil
}

func (s *payHistoryService) Create(ctx context.Context, employeeID int32, req *dto.CreatePayHistoryRequest) (*dto.PayHistoryResponse, error) {
	if err := s.ensureEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	date, err := model.ParseDate(req.RateChangeDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRateChangeDate, req.RateChangeDate)
	}
	if date.Before(model.StorageMinDate) {
		return nil, fmt.Errorf("%w: %s", ErrRateDateBeforeFloor, model.FormatDate(date))
	}
	if req.Rate.LessThan(minPayRate) || req.Rate.GreaterThan(maxPayRate) {
		return nil, fmt.Errorf("%w: %s", ErrPayRateOutOfRange, req.Rate.String())
	}
	if req.PayFrequency != model.PayFrequencyMonthly && req.PayFrequency != model.PayFrequencyBiweekly {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPayFrequency, req.PayFrequency)
	}

	p := &model.PayHistory{
		EmployeeID:     employeeID,
		RateChangeDate: date,
		Rate:           req.Rate.Round(4),
		PayFrequency:   req.PayFrequency,
		LastModified:   s.now().UTC(),
	}
	if err := s.repo.PayHistory.Create(ctx, p); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %d/%s", ErrDuplicatePayHistory, employeeID, model.FormatDate(date))
		}
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %d", ErrEmployeeNotFound, employeeID)
		}
		s.recorder.Record(ctx, Event{
			Level:   zapcore.ErrorLevel,
			Action:  "pay_history.create",
			Message: "薪资记录写入失败",
			Err:     err,
			Fields:  []zap.Field{zap.Int32("employee_id", employeeID)},
		})
		return nil, err
	}

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  "pay_history.create",
		Message: "薪资记录已新增",
		Fields: []zap.Field{
			zap.Int32("employee_id", employeeID),
			zap.String("rate_change_date", model.FormatDate(date)),
			zap.Stringer("rate", p.Rate),
		},
	})

	resp := toPayHistoryResponse(p)
	return &resp, nil
}

func (s *payHistoryService) ensureEmployee(ctx context.Context, employeeID int32) error {
	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrEmployeeNotFound, employeeID)
		}
		s.logger.Error("查询员工失败", zap.Int32("employee_id", employeeID), zap.Error(err))
		return err
	}
	return nil
}

func toPayHistoryResponse(p *model.PayHistory) dto.PayHistoryResponse {
	return dto.PayHistoryResponse{
		EmployeeID:     p.EmployeeID,
		RateChangeDate: model.FormatDate(p.RateChangeDate),
		Rate:           p.Rate,
		PayFrequency:   p.PayFrequency,
		LastModified:   p.LastModified.UTC().Format(time.RFC3339),
	}
}
