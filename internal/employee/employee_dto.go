package employee

type EmployeeResponse struct {
	ID             string                      `json:"id"`
	EmployeeNumber string                      `json:"employee_number"`
	FullName       string                      `json:"full_name"`
	Email          string                      `json:"email"`
	StaffCategory  string                      `json:"staff_category,omitempty"`
	EmploymentType string                      `json:"employment_type,omitempty"`
	SchoolID       string                      `json:"school_id"`
	DepartmentID   string                      `json:"department_id,omitempty"`
	PositionID     string                      `json:"position_id,omitempty"`
	Department     *EmployeeDepartmentResponse `json:"department,omitempty"`
	Position       *EmployeePositionResponse   `json:"position,omitempty"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeePositionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeOption is the lightweight shape used by salary forms.
type EmployeeOption struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}

type EmployeeListQuery struct {
	Q              string `form:"q"`
	Department     string `form:"department"`
	StaffCategory  string `form:"staff_category"`
	EmploymentType string `form:"employment_type"`
	SortBy         string `form:"sort_by"`
	SortDir        string `form:"sort_dir"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size" binding:"omitempty,max=100"`
}
