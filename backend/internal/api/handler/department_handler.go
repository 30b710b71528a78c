package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

// DepartmentHandler 部门接口
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler 实例
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// List 部门列表
// GET /departments
func (h *DepartmentHandler) List(c *gin.Context) {
	depts, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, depts)
}

// Get 部门详情
// GET /departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 16)
	if err != nil {
		response.BadRequest(c, 10001, "部门编号无效")
		return
	}

	dept, err := h.deptSvc.GetByID(c.Request.Context(), int16(id))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, dept)
}

// Create 创建部门
// POST /departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	location := fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request.URL.Path, "/"), dept.DepartmentID)
	response.Created(c, location, dept)
}

func (h *DepartmentHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrDepartmentExists):
		response.Conflict(c, 13002, err.Error())
	case errors.Is(err, service.ErrDepartmentIDOutOfRange):
		response.BadRequest(c, 13003, err.Error())
	default:
		response.InternalError(c)
	}
}
