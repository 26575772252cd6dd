package events

import "time"

const (
	SalaryPaymentTopic = "school.salary.payment.v1"
	SalaryPaidType     = "salary_paid"
)

// SalaryPaidEvent is queued in the outbox in the same transaction that marks
// a salary record paid.
type SalaryPaidEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	SalaryID      string    `json:"salary_id"`
	SchoolID      string    `json:"school_id"`
	EmployeeID    string    `json:"employee_id"`
	Month         string    `json:"month"`
	NetSalary     string    `json:"net_salary"`
	PaymentMethod string    `json:"payment_method"`
	PaidBy        string    `json:"paid_by"`
	Bulk          bool      `json:"bulk"`
	OccurredAt    time.Time `json:"occurred_at"`
}
