package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/model"
	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

// PATCH 支持的媒体类型
const (
	mediaJSON       = "application/json"
	mediaMergePatch = "application/merge-patch+json"
	mediaJSONPatch  = "application/json-patch+json"
)

// DepartmentHistoryHandler 部门调动接口
type DepartmentHistoryHandler struct {
	historySvc service.DepartmentHistoryService
}

// NewDepartmentHistoryHandler 创建 DepartmentHistoryHandler 实例
func NewDepartmentHistoryHandler(historySvc service.DepartmentHistoryService) *DepartmentHistoryHandler {
	return &DepartmentHistoryHandler{historySvc: historySvc}
}

// List 全部调动记录
// GET /department-history
func (h *DepartmentHistoryHandler) List(c *gin.Context) {
	list, err := h.historySvc.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, list)
}

// ListPaged 分页搜索调动记录
// GET /department-history/paged?pageNumber&pageSize&search
func (h *DepartmentHistoryHandler) ListPaged(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, validationDetail(err))
		return
	}

	items, total, err := h.historySvc.ListPaged(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Get 单条调动记录
// GET /department-history/:employeeId/:departmentId/:shiftId/:startDate
func (h *DepartmentHistoryHandler) Get(c *gin.Context) {
	key, ok := parseDepartmentHistoryKey(c)
	if !ok {
		return
	}

	resp, err := h.historySvc.Get(c.Request.Context(), key)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Create 新建调动，同时结束员工当前在任记录
// POST /department-history
func (h *DepartmentHistoryHandler) Create(c *gin.Context) {
	var req dto.CreateDepartmentHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.historySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	location := fmt.Sprintf("%s/%d/%d/%d/%s",
		strings.TrimSuffix(c.Request.URL.Path, "/"),
		resp.EmployeeID, resp.DepartmentID, resp.ShiftID, resp.StartDate)
	response.Created(c, location, resp)
}

// Patch 局部更新，支持合并式 JSON 或 RFC 6902 文档
// PATCH /department-history/:employeeId/:departmentId/:shiftId/:startDate
func (h *DepartmentHistoryHandler) Patch(c *gin.Context) {
	key, ok := parseDepartmentHistoryKey(c)
	if !ok {
		return
	}

	var (
		resp *dto.DepartmentHistoryResponse
		err  error
	)
	switch c.ContentType() {
	case mediaJSONPatch:
		body, readErr := io.ReadAll(c.Request.Body)
		if readErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(readErr, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
			response.BadRequest(c, 10001, "请求体读取失败")
			return
		}
		resp, err = h.historySvc.ApplyJSONPatch(c.Request.Context(), key, body)
	case mediaJSON, mediaMergePatch, "":
		var req dto.PatchDepartmentHistoryRequest
		if !bindJSON(c, &req) {
			return
		}
		resp, err = h.historySvc.Patch(c.Request.Context(), key, &req)
	default:
		response.Error(c, http.StatusUnsupportedMediaType, 14009, "不支持的 PATCH 媒体类型")
		return
	}

	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// Delete 删除调动记录
// DELETE /department-history/:employeeId/:departmentId/:shiftId/:startDate
func (h *DepartmentHistoryHandler) Delete(c *gin.Context) {
	key, ok := parseDepartmentHistoryKey(c)
	if !ok {
		return
	}

	if err := h.historySvc.Delete(c.Request.Context(), key); err != nil {
		h.handleError(c, err)
		return
	}
	response.NoContent(c)
}

// ListByEmployee 按开始日期列出某员工的调动记录
// GET /employees/:id/department-history
func (h *DepartmentHistoryHandler) ListByEmployee(c *gin.Context) {
	employeeID, ok := parseEmployeeID(c)
	if !ok {
		return
	}

	list, err := h.historySvc.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, list)
}

// parseDepartmentHistoryKey 解析路径中的四段自然主键
func parseDepartmentHistoryKey(c *gin.Context) (model.DepartmentHistoryKey, bool) {
	var key model.DepartmentHistoryKey

	employeeID, err := strconv.ParseInt(c.Param("employeeId"), 10, 32)
	if err != nil {
		response.BadRequest(c, 10001, "employeeId 无效")
		return key, false
	}
	departmentID, err := strconv.ParseInt(c.Param("departmentId"), 10, 16)
	if err != nil {
		response.BadRequest(c, 10001, "departmentId 无效")
		return key, false
	}
	shiftID, err := strconv.ParseInt(c.Param("shiftId"), 10, 16)
	if err != nil {
		response.BadRequest(c, 10001, "shiftId 无效")
		return key, false
	}
	startDate, err := model.ParseDate(c.Param("startDate"))
	if err != nil {
		response.BadRequest(c, 10001, "startDate 无效")
		return key, false
	}

	key.EmployeeID = int32(employeeID)
	key.DepartmentID = int16(departmentID)
	key.ShiftID = int16(shiftID)
	key.StartDate = startDate
	return key, true
}

func (h *DepartmentHistoryHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentHistoryNotFound):
		response.NotFound(c, 14001, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrDepartmentIDOutOfRange):
		response.BadRequest(c, 14002, err.Error())
	case errors.Is(err, service.ErrStartDateBeforeFloor):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, service.ErrInvalidMovementDate):
		response.BadRequest(c, 14004, err.Error())
	case errors.Is(err, service.ErrIncompleteMovement):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, service.ErrInvalidPatch):
		response.BadRequest(c, 14008, err.Error())
	case errors.Is(err, service.ErrEndDateBeforeStartDate):
		response.Conflict(c, 14005, err.Error())
	case errors.Is(err, service.ErrDuplicateMovement):
		response.Conflict(c, 14006, err.Error())
	case errors.Is(err, service.ErrAnotherOpenMovement):
		response.Conflict(c, 14007, err.Error())
	default:
		response.InternalError(c)
	}
}
