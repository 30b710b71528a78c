package dto

import (
	"math"
	"strconv"
)

// ── 公共响应 ──

// DepartmentResponse 部门摘要
type DepartmentResponse struct {
	DepartmentID int16  `json:"departmentId"`
	Name         string `json:"name"`
	GroupName    string `json:"groupName"`
}

// ── 分页 ──

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PaginationRequest 分页查询参数
// 使用字符串接收，非法值回退为默认值而不是绑定失败
type PaginationRequest struct {
	PageNumber string `form:"pageNumber"`
	PageSize   string `form:"pageSize"`
}

// GetPage 页码，缺省或非法时为 1
// 上限保证任意页大小下偏移量都不超过 int32
func (p *PaginationRequest) GetPage() int {
	n, err := strconv.Atoi(p.PageNumber)
	if err != nil || n < 1 {
		return 1
	}
	if last := math.MaxInt32/p.GetPageSize() + 1; n > last {
		return last
	}
	return n
}

// GetPageSize 每页条数，缺省或无法解析时为 DefaultPageSize，限制在 [1, MaxPageSize]
func (p *PaginationRequest) GetPageSize() int {
	n, err := strconv.Atoi(p.PageSize)
	if err != nil {
		return DefaultPageSize
	}
	if n < 1 {
		return 1
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// GetOffset 当前页的行偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// SearchRequest 分页加关键字搜索
type SearchRequest struct {
	PaginationRequest
	Search string `form:"search" binding:"omitempty,max=100"`
}
