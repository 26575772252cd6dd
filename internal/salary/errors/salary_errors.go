package salaryerrors

import (
	"net/http"

	"github.com/shahadat-technovicinity/school-management-system/internal/shared/apperror"
)

var (
	ErrInvalidSchoolID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid school id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid month, expected YYYY-MM, YYYY-MM-DD or 'January 2006'",
		http.StatusBadRequest,
	)
	ErrNegativeBaseAmount = apperror.New(
		apperror.CodeInvalidInput,
		"base amount cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidLineItems = apperror.New(
		apperror.CodeInvalidInput,
		"invalid allowance or deduction lines",
		http.StatusBadRequest,
	)
	ErrNegativeNetSalary = apperror.New(
		apperror.CodeInvalidInput,
		"total deductions cannot exceed gross salary",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentMethod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment method",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment status",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentFrequency = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment frequency",
		http.StatusBadRequest,
	)
	ErrInvalidPaymentAction = apperror.New(
		apperror.CodeInvalidInput,
		"action must be either 'pay' or 'cancel'",
		http.StatusBadRequest,
	)
	ErrInvalidAmountFilter = apperror.New(
		apperror.CodeInvalidInput,
		"min_salary and max_salary must be decimal numbers",
		http.StatusBadRequest,
	)
	ErrInvalidOrdering = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported ordering field",
		http.StatusBadRequest,
	)
	ErrInvalidBulkIDs = apperror.New(
		apperror.CodeInvalidInput,
		"salary_ids contains malformed ids",
		http.StatusBadRequest,
	)
	ErrInvalidExportFormat = apperror.New(
		apperror.CodeInvalidInput,
		"format must be csv or xlsx",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found in this school",
		http.StatusNotFound,
	)
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary record not found",
		http.StatusNotFound,
	)
	ErrSalariesNotFound = apperror.New(
		apperror.CodeNotFound,
		"some salary records were not found",
		http.StatusNotFound,
	)
	ErrDuplicateSalary = apperror.New(
		apperror.CodeConflict,
		"salary record for this employee and month already exists",
		http.StatusConflict,
	)
	ErrAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"this salary has already been paid",
		http.StatusConflict,
	)
	ErrSalariesAlreadyPaid = apperror.New(
		apperror.CodeInvalidState,
		"some salary records are already paid",
		http.StatusConflict,
	)
	ErrCannotCancelPaid = apperror.New(
		apperror.CodeInvalidState,
		"cannot cancel a paid salary, contact admin for refund",
		http.StatusConflict,
	)
	ErrAlreadyCancelled = apperror.New(
		apperror.CodeInvalidState,
		"this salary has already been cancelled",
		http.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeInvalidState,
		"salary status changed while processing, reload and retry",
		http.StatusConflict,
	)
	ErrPaidImmutable = apperror.New(
		apperror.CodeInvalidState,
		"paid salary records cannot be modified",
		http.StatusConflict,
	)
	ErrDeletePaid = apperror.New(
		apperror.CodeInvalidState,
		"paid salary records cannot be deleted",
		http.StatusConflict,
	)
	ErrPayslipUnpaid = apperror.New(
		apperror.CodeInvalidState,
		"payslips are only available for paid salaries",
		http.StatusConflict,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"payslip is not generated yet",
		http.StatusNotFound,
	)
	ErrIntegrity = apperror.New(
		apperror.CodeInternalError,
		"salary data is inconsistent",
		http.StatusInternalServerError,
	)
)
