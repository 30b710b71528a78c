package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

// EmployeeHandler 员工接口
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler 实例
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// List 分页搜索在职员工
// GET /employees?pageNumber&pageSize&search
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, validationDetail(err))
		return
	}

	items, total, err := h.employeeSvc.ListPaged(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Get 员工详情
// GET /employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := parseEmployeeID(c)
	if !ok {
		return
	}

	emp, err := h.employeeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, emp)
}

// Delete 软删除员工
// DELETE /employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := parseEmployeeID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *EmployeeHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmployeeNotFound) {
		response.NotFound(c, 12001, err.Error())
		return
	}
	response.InternalError(c)
}
