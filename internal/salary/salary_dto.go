package salary

import "github.com/shopspring/decimal"

type LineItemInput struct {
	Type   string           `json:"type" binding:"required"`
	Name   string           `json:"name" binding:"required,max=100"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

type CreateSalaryRequest struct {
	EmployeeID       string           `json:"employee_id" binding:"required,uuid"`
	Month            string           `json:"month" binding:"required"`
	BaseAmount       *decimal.Decimal `json:"basic_salary" binding:"required"`
	PaymentFrequency string           `json:"payment_frequency"`
	PaymentMethod    string           `json:"payment_method"`
	Comments         string           `json:"comments"`
	Allowances       []LineItemInput  `json:"allowances"`
	Deductions       []LineItemInput  `json:"deductions"`
}

// UpdateSalaryRequest is a partial update. A nil line list keeps the stored
// lines, a non-nil (possibly empty) list replaces them.
type UpdateSalaryRequest struct {
	Month            *string          `json:"month"`
	BaseAmount       *decimal.Decimal `json:"basic_salary"`
	PaymentFrequency *string          `json:"payment_frequency"`
	PaymentMethod    *string          `json:"payment_method"`
	Comments         *string          `json:"comments"`
	Allowances       *[]LineItemInput `json:"allowances"`
	Deductions       *[]LineItemInput `json:"deductions"`
}

type PaymentRequest struct {
	Action        string `json:"action" binding:"required,oneof=pay cancel"`
	PaymentMethod string `json:"payment_method"`
	Comments      string `json:"comments"`
}

type BulkPaymentRequest struct {
	SalaryIDs     []string `json:"salary_ids" binding:"required,min=1,max=500"`
	PaymentMethod string   `json:"payment_method"`
}

type BulkPaymentResponse struct {
	Processed      int      `json:"processed"`
	TotalRequested int      `json:"total_requested"`
	ProcessedIDs   []string `json:"processed_ids"`
}

type ListSalariesQuery struct {
	Month          string `form:"month"`
	Department     string `form:"department"`
	Position       string `form:"position"`
	StaffCategory  string `form:"staff_category"`
	EmploymentType string `form:"employment_type"`
	PaymentStatus  string `form:"payment_status" binding:"omitempty,oneof=pending paid processing cancelled"`
	PaymentMethod  string `form:"payment_method" binding:"omitempty,oneof=direct_deposit bank_transfer cash check"`
	EmployeeID     string `form:"employee_id" binding:"omitempty,uuid"`
	Search         string `form:"search"`
	MinSalary      string `form:"min_salary"`
	MaxSalary      string `form:"max_salary"`
	Ordering       string `form:"ordering"`
	Page           int    `form:"page"`
	PerPage        int    `form:"per_page"`
}

type DashboardFilterQuery struct {
	Month          string `form:"month"`
	Department     string `form:"department"`
	StaffCategory  string `form:"staff_category"`
	EmploymentType string `form:"employment_type"`
}

type LineItemResponse struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type EmployeeSummary struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
	Email          string `json:"email,omitempty"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	StaffCategory  string `json:"staff_category,omitempty"`
	EmploymentType string `json:"employment_type"`
}

type SalaryResponse struct {
	ID               string             `json:"id"`
	SchoolID         string             `json:"school_id"`
	EmployeeID       string             `json:"employee_id"`
	Employee         *EmployeeSummary   `json:"employee,omitempty"`
	Month            string             `json:"month"`
	MonthDisplay     string             `json:"month_display"`
	BaseAmount       string             `json:"basic_salary"`
	PaymentFrequency string             `json:"payment_frequency"`
	PaymentMethod    string             `json:"payment_method"`
	PaymentStatus    string             `json:"payment_status"`
	PaymentDate      *string            `json:"payment_date"`
	PaidBy           *string            `json:"paid_by"`
	CreatedBy        *string            `json:"created_by"`
	Comments         string             `json:"comments"`
	Allowances       []LineItemResponse `json:"allowances"`
	Deductions       []LineItemResponse `json:"deductions"`
	TotalAllowances  string             `json:"total_allowances"`
	TotalDeductions  string             `json:"total_deductions"`
	GrossSalary      string             `json:"gross_salary"`
	NetSalary        string             `json:"net_salary"`
	PayslipURL       *string            `json:"payslip_url,omitempty"`
	CreatedAt        string             `json:"created_at"`
	UpdatedAt        string             `json:"updated_at"`
}

type PaymentHistoryItem struct {
	ID            string  `json:"id"`
	Month         string  `json:"month"`
	MonthDisplay  string  `json:"month_display"`
	BaseAmount    string  `json:"basic_salary"`
	NetSalary     string  `json:"net_salary"`
	PaymentStatus string  `json:"payment_status"`
	PaymentDate   *string `json:"payment_date"`
}

type SalaryDetailResponse struct {
	SalaryResponse
	PaymentHistory []PaymentHistoryItem `json:"payment_history"`
}

type SalaryListResult struct {
	Items   []SalaryResponse
	Total   int64
	Page    int
	PerPage int
}

type DashboardResponse struct {
	TotalSalaryDisbursement     string `json:"total_salary_disbursement"`
	DisbursementChangePercent   string `json:"disbursement_change_percent"`
	DisbursementChangeDirection string `json:"disbursement_change_direction"`
	TotalEmployees              int    `json:"total_employees"`
	EmployeesChangePercent      string `json:"employees_change_percent"`
	EmployeesChangeDirection    string `json:"employees_change_direction"`
	AverageSalary               string `json:"average_salary"`
	AverageChangePercent        string `json:"average_change_percent"`
	AverageChangeDirection      string `json:"average_change_direction"`
	PendingApprovals            int    `json:"pending_approvals"`
	PaidCount                   int    `json:"paid_count"`
	TotalAllowances             string `json:"total_allowances"`
	TotalDeductions             string `json:"total_deductions"`
	CurrentMonth                string `json:"current_month"`
	CurrentMonthDisplay         string `json:"current_month_display"`
}

type DepartmentBreakdown struct {
	Department    string `json:"department"`
	TotalSalary   string `json:"total_salary"`
	TotalNet      string `json:"total_net_salary"`
	EmployeeCount int    `json:"employee_count"`
	PaidCount     int    `json:"paid_count"`
	PendingCount  int    `json:"pending_count"`
}

type PaymentStatusSummary struct {
	Total      int `json:"total"`
	Paid       int `json:"paid"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Cancelled  int `json:"cancelled"`
}

type StatisticsResponse struct {
	Month                string                `json:"month"`
	ByDepartment         []DepartmentBreakdown `json:"by_department"`
	PaymentStatusSummary PaymentStatusSummary  `json:"payment_status_summary"`
}

type LineItemTypesResponse struct {
	AllowanceTypes     []string `json:"allowance_types"`
	DeductionTypes     []string `json:"deduction_types"`
	PaymentMethods     []string `json:"payment_methods"`
	PaymentStatuses    []string `json:"payment_statuses"`
	PaymentFrequencies []string `json:"payment_frequencies"`
}
