package handler

import (
	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

// AuditLogHandler 审计日志接口
type AuditLogHandler struct {
	auditSvc service.AuditLogService
}

// NewAuditLogHandler 创建 AuditLogHandler 实例
func NewAuditLogHandler(auditSvc service.AuditLogService) *AuditLogHandler {
	return &AuditLogHandler{auditSvc: auditSvc}
}

// List 按时间倒序分页查询
// GET /logs?pageNumber&pageSize
func (h *AuditLogHandler) List(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, validationDetail(err))
		return
	}

	items, total, err := h.auditSvc.ListPaged(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}
