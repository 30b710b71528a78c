package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
	pkgerrors "peopledesk/backend/pkg/errors"
)

// ── 候选人模块业务错误 ──

var (
	ErrJobCandidateNotFound = errors.New("候选人不存在")
)

// JobCandidateService 候选人业务接口
type JobCandidateService interface {
	Create(ctx context.Context, req *dto.JobCandidateRequest) (*dto.JobCandidateResponse, error)
	GetByID(ctx context.Context, id int32) (*dto.JobCandidateResponse, error)
	ListPaged(ctx context.Context, req *dto.PaginationRequest) ([]dto.JobCandidateResponse, int64, error)
	Update(ctx context.Context, id int32, req *dto.JobCandidateRequest) (*dto.JobCandidateResponse, error)
	Delete(ctx context.Context, id int32) error
}

type jobCandidateService struct {
	repo     *repository.Repository
	recorder EventRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewJobCandidateService 创建 JobCandidateService 实例
func NewJobCandidateService(repo *repository.Repository, recorder EventRecorder, logger *zap.Logger) JobCandidateService {
	return &jobCandidateService{repo: repo, recorder: recorder, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *jobCandidateService) Create(ctx context.Context, req *dto.JobCandidateRequest) (*dto.JobCandidateResponse, error) {
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	c := &model.JobCandidate{LastModified: s.now().UTC()}
	applyJobCandidate(c, req)

	if err := s.repo.JobCandidate.Create(ctx, c); err != nil {
		return nil, s.writeFailure(ctx, "job_candidate.create", err, req.EmployeeID)
	}

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  "job_candidate.create",
		Message: "候选人已创建",
		Fields:  []zap.Field{zap.Int32("job_candidate_id", c.JobCandidateID)},
	})

	resp := toJobCandidateResponse(c)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *jobCandidateService) GetByID(ctx context.Context, id int32) (*dto.JobCandidateResponse, error) {
	c, err := s.repo.JobCandidate.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrJobCandidateNotFound, id)
		}
		s.logger.Error("查询候选人失败", zap.Int32("job_candidate_id", id), zap.Error(err))
		return nil, err
	}

	resp := toJobCandidateResponse(c)
	return &resp, nil
}

// ────────────────────── ListPaged ──────────────────────

func (s *jobCandidateService) ListPaged(ctx context.Context, req *dto.PaginationRequest) ([]dto.JobCandidateResponse, int64, error) {
	rows, total, err := s.repo.JobCandidate.ListPaged(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询候选人列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.JobCandidateResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toJobCandidateResponse(&rows[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *jobCandidateService) Update(ctx context.Context, id int32, req *dto.JobCandidateRequest) (*dto.JobCandidateResponse, error) {
	if err := s.ensureEmployee(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	c := &model.JobCandidate{JobCandidateID: id, LastModified: s.now().UTC()}
	applyJobCandidate(c, req)

	if err := s.repo.JobCandidate.Update(ctx, c); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrJobCandidateNotFound, id)
		}
		return nil, s.writeFailure(ctx, "job_candidate.update", err, req.EmployeeID)
	}

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  "job_candidate.update",
		Message: "候选人已更新",
		Fields:  []zap.Field{zap.Int32("job_candidate_id", id)},
	})

	resp := toJobCandidateResponse(c)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *jobCandidateService) Delete(ctx context.Context, id int32) error {
	if err := s.repo.JobCandidate.Delete(ctx, id); err != nil {
		if pkgerrors.IsNotFound(err) {
			return fmt.Errorf("%w: %d", ErrJobCandidateNotFound, id)
		}
		s.logger.Error("删除候选人失败", zap.Int32("job_candidate_id", id), zap.Error(err))
		return err
	}

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  "job_candidate.delete",
		Message: "候选人已删除",
		Fields:  []zap.Field{zap.Int32("job_candidate_id", id)},
	})
	return nil
}

// ensureEmployee 关联员工必须存在；未关联时跳过
func (s *jobCandidateService) ensureEmployee(ctx context.Context, employeeID *int32) error {
	if employeeID == nil {
		return nil
	}
	if _, err := s.repo.Employee.GetByID(ctx, *employeeID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return fmt.Errorf("%w: %d", ErrEmployeeNotFound, *employeeID)
		}
		s.logger.Error("查询员工失败", zap.Int32("employee_id", *employeeID), zap.Error(err))
		return err
	}
	return nil
}

// writeFailure 写入期间员工被删除时外键冲突，按员工不存在处理
func (s *jobCandidateService) writeFailure(ctx context.Context, action string, err error, employeeID *int32) error {
	if employeeID != nil && pkgerrors.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %d", ErrEmployeeNotFound, *employeeID)
	}
	s.recorder.Record(ctx, Event{
		Level:   zapcore.ErrorLevel,
		Action:  action,
		Message: "候选人写入失败",
		Err:     err,
	})
	return err
}

func applyJobCandidate(c *model.JobCandidate, req *dto.JobCandidateRequest) {
	c.EmployeeID = req.EmployeeID
	c.Name = strings.TrimSpace(req.Name)
	c.Email = strings.TrimSpace(req.Email)
	c.Resume = req.Resume
}

func toJobCandidateResponse(c *model.JobCandidate) dto.JobCandidateResponse {
	return dto.JobCandidateResponse{
		JobCandidateID: c.JobCandidateID,
		EmployeeID:     c.EmployeeID,
		Name:           c.Name,
		Email:          c.Email,
		Resume:         c.Resume,
		LastModified:   c.LastModified.UTC().Format(time.RFC3339),
	}
}
