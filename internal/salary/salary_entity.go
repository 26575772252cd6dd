package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusPaid       = "paid"
	StatusProcessing = "processing"
	StatusCancelled  = "cancelled"
)

const (
	MethodDirectDeposit = "direct_deposit"
	MethodBankTransfer  = "bank_transfer"
	MethodCash          = "cash"
	MethodCheck         = "check"
)

const (
	FrequencyMonthly  = "monthly"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyYearly   = "yearly"
)

var (
	PaymentStatuses    = []string{StatusPending, StatusPaid, StatusProcessing, StatusCancelled}
	PaymentMethods     = []string{MethodDirectDeposit, MethodBankTransfer, MethodCash, MethodCheck}
	PaymentFrequencies = []string{FrequencyMonthly, FrequencyWeekly, FrequencyBiweekly, FrequencyYearly}

	AllowanceTypes = []string{
		"housing", "transport", "medical", "meal", "phone",
		"education", "overtime", "bonus", "other",
	}
	DeductionTypes = []string{
		"income_tax", "pension", "health_insurance", "life_insurance",
		"loan", "advance", "late_penalty", "absence", "other",
	}
)

// SalaryRecord is one employee's pay for one month. Net salary is never
// stored; see ComputeTotals.
type SalaryRecord struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_salary_school_status"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_salary_employee_period"`
	Employee   *SalaryEmployee `gorm:"foreignKey:EmployeeID;references:ID"`

	// Always the first day of the month.
	Period time.Time `gorm:"type:date;not null;uniqueIndex:uq_salary_employee_period;index"`

	BaseAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PaymentFrequency string          `gorm:"type:varchar(20);not null;default:'monthly'"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null;default:'bank_transfer'"`
	PaymentStatus    string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_salary_school_status"`
	PaidAt           *time.Time
	PaidBy           *uuid.UUID `gorm:"type:uuid"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid"`
	Comments         string     `gorm:"type:text;not null;default:''"`

	PayslipURL         *string
	PayslipGeneratedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Allowances []AllowanceLine `gorm:"foreignKey:SalaryID;constraint:OnDelete:CASCADE"`
	Deductions []DeductionLine `gorm:"foreignKey:SalaryID;constraint:OnDelete:CASCADE"`
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}

type AllowanceLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"column:allowance_type;type:varchar(30);not null"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time
}

func (AllowanceLine) TableName() string {
	return "salary_allowances"
}

type DeductionLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type      string          `gorm:"column:deduction_type;type:varchar(30);not null"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time
}

func (DeductionLine) TableName() string {
	return "salary_deductions"
}

// Read-only views over the employee directory tables.

type SalaryEmployee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SchoolID       uuid.UUID  `gorm:"type:uuid"`
	EmployeeNumber string     `gorm:"column:employee_number"`
	FullName       string     `gorm:"column:full_name"`
	Email          string     `gorm:"column:email"`
	StaffCategory  string     `gorm:"column:staff_category"`
	EmploymentType string     `gorm:"column:employment_type"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid"`
	PositionID     *uuid.UUID `gorm:"type:uuid"`

	Department *SalaryDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
	Position   *SalaryPosition   `gorm:"foreignKey:PositionID;references:ID"`
}

func (SalaryEmployee) TableName() string {
	return "employees"
}

type SalaryDepartment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (SalaryDepartment) TableName() string {
	return "departments"
}

type SalaryPosition struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (SalaryPosition) TableName() string {
	return "positions"
}

func (e *SalaryEmployee) DepartmentName() string {
	if e == nil || e.Department == nil {
		return ""
	}
	return e.Department.Name
}

func (e *SalaryEmployee) PositionName() string {
	if e == nil || e.Position == nil {
		return ""
	}
	return e.Position.Name
}
