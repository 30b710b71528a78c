package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
	pkgerrors "peopledesk/backend/pkg/errors"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound = errors.New("部门不存在")
	ErrDepartmentExists   = errors.New("部门已存在")
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentDetailResponse, error)
	GetByID(ctx context.Context, id int16) (*dto.DepartmentDetailResponse, error)
	List(ctx context.Context) ([]dto.DepartmentDetailResponse, error)
}

type departmentService struct {
	repo     *repository.Repository
	recorder EventRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, recorder EventRecorder, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentDetailResponse, error) {
	if req.DepartmentID > math.MaxInt16 {
		return nil, fmt.Errorf("%w: %d", ErrDepartmentIDOutOfRange, req.DepartmentID)
	}

	dept := &model.Department{
		DepartmentID: int16(req.DepartmentID),
		Name:         req.Name,
		GroupName:    req.GroupName,
		LastModified: s.now().UTC(),
	}

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %d", ErrDepartmentExists, dept.DepartmentID)
		}
		s.logger.Error("创建部门失败", zap.Int16("department_id", dept.DepartmentID), zap.Error(err))
		return nil, err
	}

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  "department.create",
		Message: "部门已创建",
		Fields: []zap.Field{
			zap.Int16("department_id", dept.DepartmentID),
			zap.String("name", dept.Name),
		},
	})

	resp := toDepartmentDetailResponse(dept)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id int16) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDepartmentNotFound, id)
		}
		s.logger.Error("查询部门失败", zap.Int16("department_id", id), zap.Error(err))
		return nil, err
	}

	resp := toDepartmentDetailResponse(dept)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentDetailResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentDetailResponse, 0, len(depts))
	for i := range depts {
		result = append(result, toDepartmentDetailResponse(&depts[i]))
	}
	return result, nil
}

func toDepartmentResponse(d *model.Department) *dto.DepartmentResponse {
	return &dto.DepartmentResponse{
		DepartmentID: d.DepartmentID,
		Name:         d.Name,
		GroupName:    d.GroupName,
	}
}

func toDepartmentDetailResponse(d *model.Department) dto.DepartmentDetailResponse {
	return dto.DepartmentDetailResponse{
		DepartmentResponse: *toDepartmentResponse(d),
		LastModified:       d.LastModified.UTC().Format(time.RFC3339),
	}
}
