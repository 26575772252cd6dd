package salary

import (
	"errors"
	"strings"

	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueEmployeePeriod = "uq_salary_employee_period"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryerrors.ErrSalaryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == uniqueEmployeePeriod {
				return salaryerrors.ErrDuplicateSalary
			}
		case "23503":
			if strings.Contains(pgErr.ConstraintName, "employee") {
				return salaryerrors.ErrEmployeeNotFound
			}
		case "22P02":
			return salaryerrors.ErrInvalidSalaryID
		}
		// any other integrity_constraint_violation
		if strings.HasPrefix(pgErr.Code, "23") {
			return salaryerrors.ErrIntegrity
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEmployeePeriod) {
		return salaryerrors.ErrDuplicateSalary
	}

	return err
}
