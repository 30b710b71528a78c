package dto

// ── 员工 ──

// EmployeeResponse 员工信息
type EmployeeResponse struct {
	EmployeeID        int32                      `json:"employeeId"`
	FirstName         string                     `json:"firstName"`
	LastName          string                     `json:"lastName"`
	JobTitle          string                     `json:"jobTitle"`
	HireDate          *string                    `json:"hireDate"`
	Active            bool                       `json:"active"`
	CurrentDepartment *DepartmentHistoryResponse `json:"currentDepartment,omitempty"`
}
