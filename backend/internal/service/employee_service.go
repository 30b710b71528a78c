package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
)

var ErrEmployeeNotFound = errors.New("员工不存在")

// EmployeeService 员工查询与软删除业务接口
type EmployeeService interface {
	GetByID(ctx context.Context, id int32) (*dto.EmployeeResponse, error)
	ListPaged(ctx context.Context, req *dto.SearchRequest) ([]dto.EmployeeResponse, int64, error)
	// Delete 停用员工，历史记录保留
	Delete(ctx context.Context, id int32) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger, now: time.Now}
}

func (s *employeeService) GetByID(ctx context.Context, id int32) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrEmployeeNotFound, id)
		}
		s.logger.Error("查询员工失败", zap.Int32("employee_id", id), zap.Error(err))
		return nil, err
	}

	resp := toEmployeeResponse(emp)

	current, err := s.repo.DepartmentHistory.GetOpenByEmployee(ctx, id)
	switch {
	case err == nil:
		cur := toDepartmentHistoryResponse(current)
		resp.CurrentDepartment = &cur
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn("查询当前部门失败", zap.Int32("employee_id", id), zap.Error(err))
	}

	return &resp, nil
}

func (s *employeeService) ListPaged(ctx context.Context, req *dto.SearchRequest) ([]dto.EmployeeResponse, int64, error) {
	emps, total, err := s.repo.Employee.ListPaged(ctx, req.Search, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.String("search", req.Search), zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		result = append(result, toEmployeeResponse(&emps[i]))
	}
	return result, total, nil
}

func (s *employeeService) Delete(ctx context.Context, id int32) error {
	if err := s.repo.Employee.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrEmployeeNotFound, id)
		}
		s.logger.Error("停用员工失败", zap.Int32("employee_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("员工已停用", zap.Int32("employee_id", id))
	return nil
}

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		EmployeeID: e.EmployeeID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		JobTitle:   e.JobTitle,
		HireDate:   model.FormatDatePtr(e.HireDate),
		Active:     e.Active,
	}
}
