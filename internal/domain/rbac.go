package domain

// EnforceRequest asks whether an employee may perform action on resource
// within one school.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	SchoolID   string `json:"school_id" binding:"required"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
