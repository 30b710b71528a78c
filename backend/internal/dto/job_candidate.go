package dto

// ── 求职候选人 ──

// JobCandidateRequest 新建或整体替换候选人
type JobCandidateRequest struct {
	EmployeeID *int32 `json:"employeeId"`
	Name       string `json:"name"   binding:"required,min=1,max=100"`
	Email      string `json:"email"  binding:"omitempty,email,max=254"`
	Resume     string `json:"resume" binding:"max=65536"`
}

// JobCandidateResponse 候选人信息
type JobCandidateResponse struct {
	JobCandidateID int32  `json:"jobCandidateId"`
	EmployeeID     *int32 `json:"employeeId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Resume         string `json:"resume"`
	LastModified   string `json:"lastModified"`
}
