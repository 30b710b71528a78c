package dto

import (
	"encoding/json"
)

// ── 部门调动历史 ──

// CreateDepartmentHistoryRequest 新建调动请求
// 编号字段用指针，binding 只校验是否提供；存在性和范围由业务流程校验，
// DepartmentID 宽于数据库列也是这个原因
type CreateDepartmentHistoryRequest struct {
	EmployeeID   *int32  `json:"employeeId"   binding:"required"`
	DepartmentID *int64  `json:"departmentId" binding:"required"`
	ShiftID      int16   `json:"shiftId"      binding:"min=0"`
	StartDate    string  `json:"startDate"    binding:"required,isodate"`
	EndDate      *string `json:"endDate"      binding:"omitempty,isodate"`
}

// PatchDepartmentHistoryRequest 局部更新，仅处理 endDate，请求体中的主键字段被忽略
type PatchDepartmentHistoryRequest struct {
	EndDate OptionalDate `json:"endDate"`
}

// OptionalDate 区分字段缺省与显式 null
type OptionalDate struct {
	Set   bool
	Value *string
}

// UnmarshalJSON 标记字段已提供，null 时 Value 为 nil
func (o *OptionalDate) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// DepartmentHistoryResponse 调动记录
type DepartmentHistoryResponse struct {
	EmployeeID   int32               `json:"employeeId"`
	DepartmentID int16               `json:"departmentId"`
	ShiftID      int16               `json:"shiftId"`
	StartDate    string              `json:"startDate"`
	EndDate      *string             `json:"endDate"`
	LastModified string              `json:"lastModified"`
	Department   *DepartmentResponse `json:"department,omitempty"`
}

// DepartmentHistoryListItem 分页列表行，关联员工和部门
type DepartmentHistoryListItem struct {
	EmployeeID     int32   `json:"employeeId"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	DepartmentID   int16   `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	GroupName      string  `json:"groupName"`
	ShiftID        int16   `json:"shiftId"`
	StartDate      string  `json:"startDate"`
	EndDate        *string `json:"endDate"`
}
