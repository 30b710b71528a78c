package dto

// ── 部门 ──

// CreateDepartmentRequest 创建部门请求，编号范围由 service 校验
type CreateDepartmentRequest struct {
	DepartmentID int64  `json:"departmentId" binding:"required,min=1"`
	Name         string `json:"name"         binding:"required,min=2,max=50"`
	GroupName    string `json:"groupName"    binding:"required,min=2,max=50"`
}

// DepartmentDetailResponse 部门详情，含修改时间
type DepartmentDetailResponse struct {
	DepartmentResponse
	LastModified string `json:"lastModified"`
}
