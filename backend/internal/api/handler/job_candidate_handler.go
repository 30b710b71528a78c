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

// JobCandidateHandler 候选人接口
type JobCandidateHandler struct {
	candidateSvc service.JobCandidateService
}

// NewJobCandidateHandler 创建 JobCandidateHandler 实例
func NewJobCandidateHandler(candidateSvc service.JobCandidateService) *JobCandidateHandler {
	return &JobCandidateHandler{candidateSvc: candidateSvc}
}

// List 分页查询
// GET /job-candidates?pageNumber&pageSize
func (h *JobCandidateHandler) List(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, validationDetail(err))
		return
	}

	items, total, err := h.candidateSvc.ListPaged(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), req.GetPageSize())
}

// Get 候选人详情
// GET /job-candidates/:id
func (h *JobCandidateHandler) Get(c *gin.Context) {
	id, ok := parseJobCandidateID(c)
	if !ok {
		return
	}

	cand, err := h.candidateSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, cand)
}

// Create 新建候选人
// POST /job-candidates
func (h *JobCandidateHandler) Create(c *gin.Context) {
	var req dto.JobCandidateRequest
	if !bindJSON(c, &req) {
		return
	}

	cand, err := h.candidateSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	location := fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request.URL.Path, "/"), cand.JobCandidateID)
	response.Created(c, location, cand)
}

// Update 整体替换
// PUT /job-candidates/:id
func (h *JobCandidateHandler) Update(c *gin.Context) {
	id, ok := parseJobCandidateID(c)
	if !ok {
		return
	}
	var req dto.JobCandidateRequest
	if !bindJSON(c, &req) {
		return
	}

	cand, err := h.candidateSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, cand)
}

// Delete 删除候选人
// DELETE /job-candidates/:id
func (h *JobCandidateHandler) Delete(c *gin.Context) {
	id, ok := parseJobCandidateID(c)
	if !ok {
		return
	}

	if err := h.candidateSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *JobCandidateHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrJobCandidateNotFound):
		response.NotFound(c, 19001, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, err.Error())
	default:
		response.InternalError(c)
	}
}

func parseJobCandidateID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		response.BadRequest(c, 10001, "候选人编号无效")
		return 0, false
	}
	return int32(id), true
}
