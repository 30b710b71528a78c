package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/repository"
	pkgerrors "peopledesk/backend/pkg/errors"
)

// ── 部门调动模块业务错误 ──

var (
	ErrDepartmentHistoryNotFound = errors.New("调动记录不存在")
	ErrDepartmentIDOutOfRange    = errors.New("departmentId 超出部门编号范围")
	ErrStartDateBeforeFloor      = errors.New("startDate 早于允许存储的最早日期")
	ErrInvalidMovementDate       = errors.New("日期无效")
	ErrEndDateBeforeStartDate    = errors.New("endDate 不能早于 startDate")
	ErrDuplicateMovement         = errors.New("调动记录已存在")
	ErrAnotherOpenMovement       = errors.New("该员工已有其他在任记录")
	ErrInvalidPatch              = errors.New("PATCH 文档无效")
	ErrIncompleteMovement        = errors.New("employeeId 和 departmentId 为必填项")
)

// DepartmentHistoryService 部门调动业务接口
type DepartmentHistoryService interface {
	List(ctx context.Context) ([]dto.DepartmentHistoryResponse, error)
	Get(ctx context.Context, key model.DepartmentHistoryKey) (*dto.DepartmentHistoryResponse, error)
	// Create 校验后在同一事务内结束员工被取代的在任记录并插入新记录
	Create(ctx context.Context, req *dto.CreateDepartmentHistoryRequest) (*dto.DepartmentHistoryResponse, error)
	Patch(ctx context.Context, key model.DepartmentHistoryKey, req *dto.PatchDepartmentHistoryRequest) (*dto.DepartmentHistoryResponse, error)
	// ApplyJSONPatch 对当前记录应用 RFC 6902 操作，只保留 endDate 的变化
	ApplyJSONPatch(ctx context.Context, key model.DepartmentHistoryKey, patch []byte) (*dto.DepartmentHistoryResponse, error)
	Delete(ctx context.Context, key model.DepartmentHistoryKey) error
	ListPaged(ctx context.Context, req *dto.SearchRequest) ([]dto.DepartmentHistoryListItem, int64, error)
	ListByEmployee(ctx context.Context, employeeID int32) ([]dto.DepartmentHistoryResponse, error)
}

type departmentHistoryService struct {
	repo     *repository.Repository
	recorder EventRecorder
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewDepartmentHistoryService 创建 DepartmentHistoryService 实例
func NewDepartmentHistoryService(
	repo *repository.Repository,
	recorder EventRecorder,
	notifier Notifier,
	logger *zap.Logger,
) DepartmentHistoryService {
	return &departmentHistoryService{
		repo:     repo,
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── List ──────────────────────

func (s *departmentHistoryService) List(ctx context.Context) ([]dto.DepartmentHistoryResponse, error) {
	rows, err := s.repo.DepartmentHistory.List(ctx)
	if err != nil {
		return nil, s.storageFailure(ctx, "department_history.list", err)
	}
	if len(rows) == 0 {
		s.recorder.Record(ctx, Event{
			Level:   zapcore.WarnLevel,
			Action:  "department_history.list",
			Message: "暂无调动记录",
		})
	}
	return toDepartmentHistoryResponses(rows), nil
}

// ────────────────────── Get ──────────────────────

func (s *departmentHistoryService) Get(ctx context.Context, key model.DepartmentHistoryKey) (*dto.DepartmentHistoryResponse, error) {
	h, err := s.repo.DepartmentHistory.GetByKey(ctx, key)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrDepartmentHistoryNotFound, key)
		}
		return nil, s.storageFailure(ctx, "department_history.get", err, zap.Stringer("key", key))
	}
	resp := toDepartmentHistoryResponse(h)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *departmentHistoryService) Create(ctx context.Context, req *dto.CreateDepartmentHistoryRequest) (*dto.DepartmentHistoryResponse, error) {
	const action = "department_history.create"

	if req.EmployeeID == nil || req.DepartmentID == nil {
		return nil, s.reject(ctx, action, ErrIncompleteMovement)
	}
	employeeID, rawDepartmentID := *req.EmployeeID, *req.DepartmentID

	// 1. 员工
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %d", ErrEmployeeNotFound, employeeID))
		}
		return nil, s.storageFailure(ctx, action, err, zap.Int32("employee_id", employeeID))
	}

	// 2. 部门编号范围，用作主键前先校验
	if rawDepartmentID < math.MinInt16 || rawDepartmentID > math.MaxInt16 {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %d", ErrDepartmentIDOutOfRange, rawDepartmentID))
	}
	departmentID := int16(rawDepartmentID)

	// 3. 部门
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %d", ErrDepartmentNotFound, departmentID))
		}
		return nil, s.storageFailure(ctx, action, err, zap.Int16("department_id", departmentID))
	}

	// 4. 开始日期下限
	start, err := model.ParseDate(req.StartDate)
	if err != nil {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: startDate %q", ErrInvalidMovementDate, req.StartDate))
	}
	if start.Before(model.StorageMinDate) {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %s", ErrStartDateBeforeFloor, model.FormatDate(start)))
	}

	// 5. 结束日期先后
	var end *time.Time
	if req.EndDate != nil {
		e, err := model.ParseDate(*req.EndDate)
		if err != nil {
			return nil, s.reject(ctx, action, fmt.Errorf("%w: endDate %q", ErrInvalidMovementDate, *req.EndDate))
		}
		if e.Before(start) {
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %s < %s", ErrEndDateBeforeStartDate, model.FormatDate(e), model.FormatDate(start)))
		}
		end = &e
	}

	// 6. 自然主键重复
	key := model.DepartmentHistoryKey{
		EmployeeID:   employeeID,
		DepartmentID: departmentID,
		ShiftID:      req.ShiftID,
		StartDate:    start,
	}
	exists, err := s.repo.DepartmentHistory.Exists(ctx, key)
	if err != nil {
		return nil, s.storageFailure(ctx, action, err, zap.Stringer("key", key))
	}
	if exists {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %s", ErrDuplicateMovement, key))
	}

	now := s.now().UTC()
	h := &model.DepartmentHistory{
		EmployeeID:   key.EmployeeID,
		DepartmentID: key.DepartmentID,
		ShiftID:      key.ShiftID,
		StartDate:    key.StartDate,
		EndDate:      end,
		LastModified: now,
	}

	var closed int64
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 同一员工的并发新建在此串行
		if err := tx.Employee.LockForUpdate(ctx, key.EmployeeID); err != nil {
			return err
		}
		n, err := tx.DepartmentHistory.CloseOpen(ctx, key.EmployeeID, key.StartDate, now)
		if err != nil {
			return err
		}
		closed = n
		return tx.DepartmentHistory.Create(ctx, h)
	})
	if err != nil {
		switch {
		case pkgerrors.IsUniqueViolation(err):
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %s", ErrDuplicateMovement, key))
		case pkgerrors.IsNotFound(err):
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %d", ErrEmployeeNotFound, key.EmployeeID))
		case pkgerrors.IsForeignKeyViolation(err):
			// 员工行已加锁，只可能是部门被删除
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %d", ErrDepartmentNotFound, key.DepartmentID))
		}
		return nil, s.storageFailure(ctx, action, err, zap.Stringer("key", key))
	}

	movementsCreated.Inc()
	movementsClosed.Add(float64(closed))

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  action,
		Message: "部门调动已创建",
		Fields: []zap.Field{
			zap.Stringer("key", key),
			zap.Int64("closed", closed),
		},
	})

	s.notifier.Notify(ctx, &model.Notification{
		EmployeeID: &key.EmployeeID,
		Type:       model.NotificationTypeMovement,
		Title:      "部门调动",
		Message: fmt.Sprintf("%s 已调至 %s（班次 %d），自 %s 起",
			emp.FullName(), dept.Name, key.ShiftID, model.FormatDate(key.StartDate)),
	})

	h.Department = dept
	resp := toDepartmentHistoryResponse(h)
	return &resp, nil
}

// ────────────────────── Patch ──────────────────────

func (s *departmentHistoryService) Patch(ctx context.Context, key model.DepartmentHistoryKey, req *dto.PatchDepartmentHistoryRequest) (*dto.DepartmentHistoryResponse, error) {
	const action = "department_history.patch"

	h, err := s.repo.DepartmentHistory.GetByKey(ctx, key)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %s", ErrDepartmentHistoryNotFound, key))
		}
		return nil, s.storageFailure(ctx, action, err, zap.Stringer("key", key))
	}

	endDate := h.EndDate
	if req.EndDate.Set {
		if req.EndDate.Value == nil {
			// 重新打开后员工不能有两条在任记录
			if h.EndDate != nil {
				n, err := s.repo.DepartmentHistory.CountOpenExcluding(ctx, key)
				if err != nil {
					return nil, s.storageFailure(ctx, action, err, zap.Stringer("key", key))
				}
				if n > 0 {
					return nil, s.reject(ctx, action, fmt.Errorf("%w: employee %d", ErrAnotherOpenMovement, key.EmployeeID))
				}
			}
			endDate = nil
		} else {
			e, err := model.ParseDate(*req.EndDate.Value)
			if err != nil {
				return nil, s.reject(ctx, action, fmt.Errorf("%w: endDate %q", ErrInvalidMovementDate, *req.EndDate.Value))
			}
			if e.Before(h.StartDate) {
				return nil, s.reject(ctx, action, fmt.Errorf("%w: %s < %s", ErrEndDateBeforeStartDate, model.FormatDate(e), model.FormatDate(h.StartDate)))
			}
			endDate = &e
		}
	}

	now := s.now().UTC()
	if err := s.repo.DepartmentHistory.UpdateEndDate(ctx, key, endDate, now); err != nil {
		switch {
		case pkgerrors.IsNotFound(err):
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %s", ErrDepartmentHistoryNotFound, key))
		case pkgerrors.IsCheckViolation(err):
			return nil, s.reject(ctx, action, ErrEndDateBeforeStartDate)
		}
		return nil, s.storageFailure(ctx, action, err, zap.Stringer("key", key))
	}

	h.EndDate = endDate
	h.LastModified = now

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  action,
		Message: "部门调动已更新",
		Fields: []zap.Field{
			zap.Stringer("key", key),
			zap.Stringp("end_date", model.FormatDatePtr(endDate)),
		},
	})

	resp := toDepartmentHistoryResponse(h)
	return &resp, nil
}

func (s *departmentHistoryService) ApplyJSONPatch(ctx context.Context, key model.DepartmentHistoryKey, patch []byte) (*dto.DepartmentHistoryResponse, error) {
	const action = "department_history.patch"

	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %v", ErrInvalidPatch, err))
	}

	h, err := s.repo.DepartmentHistory.GetByKey(ctx, key)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, s.reject(ctx, action, fmt.Errorf("%w: %s", ErrDepartmentHistoryNotFound, key))
		}
		return nil, s.storageFailure(ctx, action, err, zap.Stringer("key", key))
	}
	original, err := json.Marshal(toDepartmentHistoryResponse(h))
	if err != nil {
		return nil, err
	}

	modified, err := ops.Apply(original)
	if err != nil {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %v", ErrInvalidPatch, err))
	}

	merge, err := jsonpatch.CreateMergePatch(original, modified)
	if err != nil {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %v", ErrInvalidPatch, err))
	}

	var req dto.PatchDepartmentHistoryRequest
	if err := json.Unmarshal(merge, &req); err != nil {
		return nil, s.reject(ctx, action, fmt.Errorf("%w: %v", ErrInvalidPatch, err))
	}
	return s.Patch(ctx, key, &req)
}

// ────────────────────── Delete ──────────────────────

func (s *departmentHistoryService) Delete(ctx context.Context, key model.DepartmentHistoryKey) error {
	const action = "department_history.delete"

	if err := s.repo.DepartmentHistory.Delete(ctx, key); err != nil {
		if pkgerrors.IsNotFound(err) {
			return s.reject(ctx, action, fmt.Errorf("%w: %s", ErrDepartmentHistoryNotFound, key))
		}
		return s.storageFailure(ctx, action, err, zap.Stringer("key", key))
	}

	s.recorder.Record(ctx, Event{
		Level:   zapcore.InfoLevel,
		Action:  action,
		Message: "部门调动已删除",
		Fields:  []zap.Field{zap.Stringer("key", key)},
	})
	return nil
}

// ────────────────────── Paged ──────────────────────

func (s *departmentHistoryService) ListPaged(ctx context.Context, req *dto.SearchRequest) ([]dto.DepartmentHistoryListItem, int64, error) {
	rows, total, err := s.repo.DepartmentHistory.ListPaged(ctx, req.Search, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("分页查询调动记录失败",
			zap.String("search", req.Search),
			zap.Error(err),
		)
		return nil, 0, err
	}

	items := make([]dto.DepartmentHistoryListItem, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		items = append(items, dto.DepartmentHistoryListItem{
			EmployeeID:     r.EmployeeID,
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			DepartmentID:   r.DepartmentID,
			DepartmentName: r.DepartmentName,
			GroupName:      r.GroupName,
			ShiftID:        r.ShiftID,
			StartDate:      model.FormatDate(r.StartDate),
			EndDate:        model.FormatDatePtr(r.EndDate),
		})
	}
	return items, total, nil
}

func (s *departmentHistoryService) ListByEmployee(ctx context.Context, employeeID int32) ([]dto.DepartmentHistoryResponse, error) {
	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrEmployeeNotFound, employeeID)
		}
		return nil, s.storageFailure(ctx, "department_history.list_by_employee", err, zap.Int32("employee_id", employeeID))
	}

	rows, err := s.repo.DepartmentHistory.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, s.storageFailure(ctx, "department_history.list_by_employee", err, zap.Int32("employee_id", employeeID))
	}
	return toDepartmentHistoryResponses(rows), nil
}

// ── 辅助函数 ──

// reject 记录客户端错误并原样返回
func (s *departmentHistoryService) reject(ctx context.Context, action string, err error) error {
	workflowRejections.WithLabelValues(action, rejectionOutcome(err)).Inc()
	s.recorder.Record(ctx, Event{
		Level:   zapcore.WarnLevel,
		Action:  action,
		Message: "调动请求被拒绝",
		Err:     err,
	})
	return err
}

// storageFailure 记录意外的存储错误及完整上下文
func (s *departmentHistoryService) storageFailure(ctx context.Context, action string, err error, fields ...zap.Field) error {
	workflowRejections.WithLabelValues(action, "storage").Inc()
	s.recorder.Record(ctx, Event{
		Level:   zapcore.ErrorLevel,
		Action:  action,
		Message: "调动记录存储失败",
		Err:     err,
		Fields:  fields,
	})
	return fmt.Errorf("%s: %w", action, err)
}

func rejectionOutcome(err error) string {
	switch {
	case errors.Is(err, ErrEmployeeNotFound),
		errors.Is(err, ErrDepartmentNotFound),
		errors.Is(err, ErrDepartmentHistoryNotFound):
		return "not_found"
	case errors.Is(err, ErrEndDateBeforeStartDate),
		errors.Is(err, ErrDuplicateMovement),
		errors.Is(err, ErrAnotherOpenMovement):
		return "conflict"
	default:
		return "invalid"
	}
}

func toDepartmentHistoryResponse(h *model.DepartmentHistory) dto.DepartmentHistoryResponse {
	resp := dto.DepartmentHistoryResponse{
		EmployeeID:   h.EmployeeID,
		DepartmentID: h.DepartmentID,
		ShiftID:      h.ShiftID,
		StartDate:    model.FormatDate(h.StartDate),
		EndDate:      model.FormatDatePtr(h.EndDate),
		LastModified: h.LastModified.UTC().Format(time.RFC3339),
	}
	if h.Department != nil {
		resp.Department = toDepartmentResponse(h.Department)
	}
	return resp
}

func toDepartmentHistoryResponses(rows []model.DepartmentHistory) []dto.DepartmentHistoryResponse {
	result := make([]dto.DepartmentHistoryResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toDepartmentHistoryResponse(&rows[i]))
	}
	return result
}
