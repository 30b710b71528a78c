package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/dto"
	"peopledesk/backend/internal/service"
	"peopledesk/backend/pkg/response"
)

// NotificationHandler 通知接口
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler 实例
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List 最新通知列表
// GET /notifications?unread=true
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, validationDetail(err))
		return
	}

	list, err := h.notificationSvc.List(c.Request.Context(), req.Unread)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// MarkRead 标记已读
// PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationSvc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFound(c, 17001, "通知不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.NoContent(c)
}
