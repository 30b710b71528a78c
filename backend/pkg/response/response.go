package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblem RFC 7807 媒体类型
const ContentTypeProblem = "application/problem+json"

// PaginationHeader 分页元数据响应头，内容同 PageMeta
const PaginationHeader = "X-Pagination"

// Problem RFC 7807 错误文档，附带业务错误码
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Code     int    `json:"code"`
}

// PageMeta 分页元数据
type PageMeta struct {
	TotalCount  int64 `json:"totalCount"`
	PageNumber  int   `json:"pageNumber"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// PageData 分页响应体
type PageData struct {
	Items interface{} `json:"items"`
	PageMeta
}

// NewPageMeta 根据过滤后的总数计算分页信息
func NewPageMeta(total int64, page, pageSize int) PageMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return PageMeta{
		TotalCount:  total,
		PageNumber:  page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
}

// ── 成功响应 ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201，附带 Location 响应头
func Created(c *gin.Context, location string, data interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, data)
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// OKPage 200 分页响应，元数据同时写入 X-Pagination
func OKPage(c *gin.Context, items interface{}, total int64, page, pageSize int) {
	meta := NewPageMeta(total, page, pageSize)
	if raw, err := json.Marshal(meta); err == nil {
		c.Header(PaginationHeader, string(raw))
	}
	c.JSON(http.StatusOK, PageData{Items: items, PageMeta: meta})
}

// ── 错误响应 ──

// Error 写入错误文档并中止后续处理
func Error(c *gin.Context, httpStatus int, code int, detail string) {
	p := Problem{
		Type:     "about:blank",
		Title:    http.StatusText(httpStatus),
		Status:   httpStatus,
		Detail:   detail,
		Instance: c.Request.URL.Path,
		Code:     code,
	}
	c.Header("Content-Type", ContentTypeProblem)
	c.AbortWithStatusJSON(httpStatus, p)
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, detail string) {
	Error(c, http.StatusBadRequest, code, detail)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, detail string) {
	Error(c, http.StatusUnauthorized, code, detail)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, detail string) {
	Error(c, http.StatusForbidden, code, detail)
}

// NotFound 404
func NotFound(c *gin.Context, code int, detail string) {
	Error(c, http.StatusNotFound, code, detail)
}

// Conflict 409
func Conflict(c *gin.Context, code int, detail string) {
	Error(c, http.StatusConflict, code, detail)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context, code int, detail string) {
	Error(c, http.StatusTooManyRequests, code, detail)
}

// InternalError 500，不暴露内部错误信息
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "服务器内部错误")
}
