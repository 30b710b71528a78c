package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

// PayHistoryHandler 薪资历史接口
type PayHistoryHandler struct {
	paySvc service.PayHistoryService
}

// NewPayHistoryHandler 创建 PayHistoryHandler 实例
func NewPayHistoryHandler(paySvc service.PayHistoryService) *PayHistoryHandler {
	return &PayHistoryHandler{paySvc: paySvc}
}

// List 按调薪日期倒序列出
// GET /employees/:id/pay-history
func (h *PayHistoryHandler) List(c *gin.Context) {
	employeeID, ok := parseEmployeeID(c)
	if !ok {
		return
	}

	list, err := h.paySvc.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, list)
}

// Create 新增薪资记录
// POST /employees/:id/pay-history
func (h *PayHistoryHandler) Create(c *gin.Context) {
	employeeID, ok := parseEmployeeID(c)
	if !ok {
		return
	}

	var req dto.CreatePayHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.paySvc.Create(c.Request.Context(), employeeID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, c.Request.URL.Path, resp)
}

func (h *PayHistoryHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrPayRateOutOfRange):
		response.BadRequest(c, 15001, err.Error())
	case errors.Is(err, service.ErrInvalidPayFrequency):
		response.BadRequest(c, 15002, err.Error())
	case errors.Is(err, service.ErrRateDateBeforeFloor):
		response.BadRequest(c, 15003, err.Error())
	case errors.Is(err, service.ErrInvalidRateChangeDate):
		response.BadRequest(c, 15004, err.Error())
	case errors.Is(err, service.ErrDuplicatePayHistory):
		response.Conflict(c, 15005, err.Error())
	default:
		response.InternalError(c)
	}
}
