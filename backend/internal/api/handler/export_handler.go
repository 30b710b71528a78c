package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 文件导出接口
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler 实例
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// DepartmentHistory 导出全部调动记录为表格
// GET /department-history/export
func (h *ExportHandler) DepartmentHistory(c *gin.Context) {
	buf, filename, err := h.exportSvc.DepartmentHistoryXLSX(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// EmployeeCalendar 导出某员工调动记录为 iCalendar
// GET /employees/:id/department-history.ics
func (h *ExportHandler) EmployeeCalendar(c *gin.Context) {
	employeeID, ok := parseEmployeeID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.EmployeeCalendar(c.Request.Context(), employeeID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	setAttachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

func setAttachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 16001, "生成导出文件失败")
	default:
		response.InternalError(c)
	}
}
