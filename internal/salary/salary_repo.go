package salary

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shahadat-technovicinity/school-management-system/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusChange is applied by a conditional UPDATE; zero fields are left alone.
type StatusChange struct {
	Status        string
	At            time.Time
	PaidAt        *time.Time
	PaidBy        *uuid.UUID
	PaymentMethod string
	Comments      *string
}

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *SalaryRecord) error
	FindByID(ctx context.Context, schoolID, id string) (*SalaryRecord, error)
	FindByIDForUpdate(ctx context.Context, schoolID, id string) (*SalaryRecord, error)
	List(ctx context.Context, schoolID string, filter ListFilter) ([]SalaryRecord, int64, error)
	FindForPeriod(ctx context.Context, schoolID string, period time.Time, dims DimensionFilter) ([]SalaryRecord, error)
	FindHistory(ctx context.Context, schoolID, employeeID, excludeID string, limit int) ([]SalaryRecord, error)
	LockStatuses(ctx context.Context, schoolID string, ids []string) (map[string]string, error)
	Update(ctx context.Context, rec *SalaryRecord) error
	ReplaceAllowances(ctx context.Context, salaryID uuid.UUID, lines []AllowanceLine) error
	ReplaceDeductions(ctx context.Context, salaryID uuid.UUID, lines []DeductionLine) error
	TransitionStatus(ctx context.Context, schoolID, id string, from []string, change StatusChange) (bool, error)
	BulkMarkPaid(ctx context.Context, schoolID string, ids []string, change StatusChange) ([]string, error)
	SetPayslip(ctx context.Context, schoolID, id, url string, at time.Time) error
	Delete(ctx context.Context, schoolID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

// conn routes gorm through the service-owned *sql.Tx when one is attached.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func withDirectoryJoins(db *gorm.DB) *gorm.DB {
	return db.
		Joins("JOIN employees ON employees.id = salary_records.employee_id").
		Joins("LEFT JOIN departments ON departments.id = employees.department_id").
		Joins("LEFT JOIN positions ON positions.id = employees.position_id")
}

func preloadAll(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Employee.Department").
		Preload("Employee.Position").
		Preload("Allowances", func(db *gorm.DB) *gorm.DB {
			return db.Order("allowance_type, name")
		}).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB {
			return db.Order("deduction_type, name")
		})
}

func (r *repository) Create(ctx context.Context, rec *SalaryRecord) error {
	return r.conn(ctx).Omit("Employee").Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, schoolID, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := preloadAll(r.conn(ctx)).
		Scopes(tenant.Scope(schoolID)).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := preloadAll(r.conn(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) List(ctx context.Context, schoolID string, filter ListFilter) ([]SalaryRecord, int64, error) {
	base := applyListFilter(
		withDirectoryJoins(r.conn(ctx).Model(&SalaryRecord{})).Scopes(tenant.Scope(schoolID)),
		filter,
	)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = defaultOrdering
	}

	q := preloadAll(base.Session(&gorm.Session{})).Order(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var records []SalaryRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *repository) FindForPeriod(
	ctx context.Context,
	schoolID string,
	period time.Time,
	dims DimensionFilter,
) ([]SalaryRecord, error) {
	q := withDirectoryJoins(r.conn(ctx).Model(&SalaryRecord{})).
		Scopes(tenant.Scope(schoolID)).
		Where("salary_records.period = ?", period)
	q = applyDimensions(q, dims)

	var records []SalaryRecord
	err := preloadAll(q).Order(defaultOrdering).Find(&records).Error
	return records, err
}

func (r *repository) FindHistory(
	ctx context.Context,
	schoolID, employeeID, excludeID string,
	limit int,
) ([]SalaryRecord, error) {
	var records []SalaryRecord
	err := r.conn(ctx).
		Preload("Allowances").
		Preload("Deductions").
		Scopes(tenant.Scope(schoolID)).
		Where("employee_id = ?", employeeID).
		Where("id <> ?", excludeID).
		Order("period DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

type idStatusRow struct {
	ID            string
	PaymentStatus string
}

// LockStatuses row-locks the given records and returns id -> status for the
// ones that exist in the school.
func (r *repository) LockStatuses(ctx context.Context, schoolID string, ids []string) (map[string]string, error) {
	var rows []idStatusRow
	err := r.conn(ctx).
		Model(&SalaryRecord{}).
		Select("id::text AS id, payment_status").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]string, len(rows))
	for _, row := range rows {
		statuses[row.ID] = row.PaymentStatus
	}
	return statuses, nil
}

func (r *repository) Update(ctx context.Context, rec *SalaryRecord) error {
	return r.conn(ctx).
		Model(rec).
		Select("period", "base_amount", "payment_frequency", "payment_method", "comments", "updated_at").
		Updates(rec).Error
}

func (r *repository) ReplaceAllowances(ctx context.Context, salaryID uuid.UUID, lines []AllowanceLine) error {
	db := r.conn(ctx)
	if err := db.Where("salary_id = ?", salaryID).Delete(&AllowanceLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].SalaryID = salaryID
	}
	return r.conn(ctx).Create(&lines).Error
}

func (r *repository) ReplaceDeductions(ctx context.Context, salaryID uuid.UUID, lines []DeductionLine) error {
	db := r.conn(ctx)
	if err := db.Where("salary_id = ?", salaryID).Delete(&DeductionLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].SalaryID = salaryID
	}
	return r.conn(ctx).Create(&lines).Error
}

func changeColumns(change StatusChange) map[string]any {
	cols := map[string]any{
		"payment_status": change.Status,
		"updated_at":     change.At,
	}
	if change.PaidAt != nil {
		cols["paid_at"] = *change.PaidAt
	}
	if change.PaidBy != nil {
		cols["paid_by"] = *change.PaidBy
	}
	if change.PaymentMethod != "" {
		cols["payment_method"] = change.PaymentMethod
	}
	if change.Comments != nil {
		cols["comments"] = *change.Comments
	}
	return cols
}

// TransitionStatus updates only while the row is still in one of the from
// states. false means someone else moved it first.
func (r *repository) TransitionStatus(
	ctx context.Context,
	schoolID, id string,
	from []string,
	change StatusChange,
) (bool, error) {
	res := r.conn(ctx).
		Model(&SalaryRecord{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		Where("payment_status IN ?", from).
		Updates(changeColumns(change))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) BulkMarkPaid(
	ctx context.Context,
	schoolID string,
	ids []string,
	change StatusChange,
) ([]string, error) {
	var updated []SalaryRecord
	err := r.conn(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Scopes(tenant.Scope(schoolID)).
		Where("id IN ?", ids).
		Where("payment_status = ?", StatusPending).
		Updates(changeColumns(change)).Error
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(updated))
	for _, rec := range updated {
		out = append(out, rec.ID.String())
	}
	return out, nil
}

func (r *repository) SetPayslip(ctx context.Context, schoolID, id, url string, at time.Time) error {
	return r.conn(ctx).
		Model(&SalaryRecord{}).
		Scopes(tenant.Scope(schoolID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"payslip_url":          url,
			"payslip_generated_at": at,
		}).Error
}

func (r *repository) Delete(ctx context.Context, schoolID, id string) error {
	db := r.conn(ctx)
	if err := db.Where("salary_id = ?", id).Delete(&AllowanceLine{}).Error; err != nil {
		return err
	}
	if err := r.conn(ctx).Where("salary_id = ?", id).Delete(&DeductionLine{}).Error; err != nil {
		return err
	}

	res := r.conn(ctx).
		Scopes(tenant.Scope(schoolID)).
		Delete(&SalaryRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
