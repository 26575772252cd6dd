package salary_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/shahadat-technovicinity/school-management-system/internal/bootstrap"
	"github.com/shahadat-technovicinity/school-management-system/internal/messaging/kafka"
	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
)

type fakeSalaryRepository struct {
	withTxFn            func(tx *sql.Tx) salary.Repository
	createFn            func(ctx context.Context, rec *salary.SalaryRecord) error
	findByIDFn          func(ctx context.Context, schoolID, id string) (*salary.SalaryRecord, error)
	findByIDForUpdateFn func(ctx context.Context, schoolID, id string) (*salary.SalaryRecord, error)
	listFn              func(ctx context.Context, schoolID string, filter salary.ListFilter) ([]salary.SalaryRecord, int64, error)
	findForPeriodFn     func(ctx context.Context, schoolID string, period time.Time, dims salary.DimensionFilter) ([]salary.SalaryRecord, error)
	findHistoryFn       func(ctx context.Context, schoolID, employeeID, excludeID string, limit int) ([]salary.SalaryRecord, error)
	lockStatusesFn      func(ctx context.Context, schoolID string, ids []string) (map[string]string, error)
	updateFn            func(ctx context.Context, rec *salary.SalaryRecord) error
	replaceAllowancesFn func(ctx context.Context, salaryID uuid.UUID, lines []salary.AllowanceLine) error
	replaceDeductionsFn func(ctx context.Context, salaryID uuid.UUID, lines []salary.DeductionLine) error
	transitionStatusFn  func(ctx context.Context, schoolID, id string, from []string, change salary.StatusChange) (bool, error)
	bulkMarkPaidFn      func(ctx context.Context, schoolID string, ids []string, change salary.StatusChange) ([]string, error)
	setPayslipFn        func(ctx context.Context, schoolID, id, url string, at time.Time) error
	deleteFn            func(ctx context.Context, schoolID, id string) error
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeSalaryRepository) Create(ctx context.Context, rec *salary.SalaryRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, rec)
	}
	return nil
}

func (f *fakeSalaryRepository) FindByID(ctx context.Context, schoolID, id string) (*salary.SalaryRecord, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, schoolID, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSalaryRepository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*salary.SalaryRecord, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, schoolID, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSalaryRepository) List(ctx context.Context, schoolID string, filter salary.ListFilter) ([]salary.SalaryRecord, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, schoolID, filter)
	}
	return nil, 0, nil
}

func (f *fakeSalaryRepository) FindForPeriod(ctx context.Context, schoolID string, period time.Time, dims salary.DimensionFilter) ([]salary.SalaryRecord, error) {
	if f.findForPeriodFn != nil {
		return f.findForPeriodFn(ctx, schoolID, period, dims)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) FindHistory(ctx context.Context, schoolID, employeeID, excludeID string, limit int) ([]salary.SalaryRecord, error) {
	if f.findHistoryFn != nil {
		return f.findHistoryFn(ctx, schoolID, employeeID, excludeID, limit)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) LockStatuses(ctx context.Context, schoolID string, ids []string) (map[string]string, error) {
	if f.lockStatusesFn != nil {
		return f.lockStatusesFn(ctx, schoolID, ids)
	}
	return map[string]string{}, nil
}

func (f *fakeSalaryRepository) Update(ctx context.Context, rec *salary.SalaryRecord) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, rec)
	}
	return nil
}

func (f *fakeSalaryRepository) ReplaceAllowances(ctx context.Context, salaryID uuid.UUID, lines []salary.AllowanceLine) error {
	if f.replaceAllowancesFn != nil {
		return f.replaceAllowancesFn(ctx, salaryID, lines)
	}
	return nil
}

func (f *fakeSalaryRepository) ReplaceDeductions(ctx context.Context, salaryID uuid.UUID, lines []salary.DeductionLine) error {
	if f.replaceDeductionsFn != nil {
		return f.replaceDeductionsFn(ctx, salaryID, lines)
	}
	return nil
}

func (f *fakeSalaryRepository) TransitionStatus(ctx context.Context, schoolID, id string, from []string, change salary.StatusChange) (bool, error) {
	if f.transitionStatusFn != nil {
		return f.transitionStatusFn(ctx, schoolID, id, from, change)
	}
	return true, nil
}

func (f *fakeSalaryRepository) BulkMarkPaid(ctx context.Context, schoolID string, ids []string, change salary.StatusChange) ([]string, error) {
	if f.bulkMarkPaidFn != nil {
		return f.bulkMarkPaidFn(ctx, schoolID, ids, change)
	}
	return ids, nil
}

func (f *fakeSalaryRepository) SetPayslip(ctx context.Context, schoolID, id, url string, at time.Time) error {
	if f.setPayslipFn != nil {
		return f.setPayslipFn(ctx, schoolID, id, url, at)
	}
	return nil
}

func (f *fakeSalaryRepository) Delete(ctx context.Context, schoolID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, schoolID, id)
	}
	return nil
}

type fakeDirectory struct {
	existsFn func(ctx context.Context, schoolID, employeeID string) (bool, error)
}

func (f *fakeDirectory) Exists(ctx context.Context, schoolID, employeeID string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, schoolID, employeeID)
	}
	return true, nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
	err    error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	r.entries = append(r.entries, entry)
}
