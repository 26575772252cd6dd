package salary

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/bootstrap"
	"github.com/shahadat-technovicinity/school-management-system/internal/messaging/kafka"
	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
	historyLimit   = 6
)

// EmployeeDirectory is the slice of the employee module salary needs.
type EmployeeDirectory interface {
	Exists(ctx context.Context, schoolID, employeeID string) (bool, error)
}

type Service interface {
	CurrentPeriod() time.Time
	Create(ctx context.Context, schoolID, actorID string, req CreateSalaryRequest) (SalaryResponse, error)
	List(ctx context.Context, schoolID string, query ListSalariesQuery) (SalaryListResult, error)
	ListByEmployee(ctx context.Context, schoolID, employeeID string, page, perPage int) (SalaryListResult, error)
	GetByID(ctx context.Context, schoolID, id string) (SalaryDetailResponse, error)
	Update(ctx context.Context, schoolID, actorID, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	Delete(ctx context.Context, schoolID, actorID, id string) error

	ProcessPayment(ctx context.Context, schoolID, actorID, id string, req PaymentRequest) (SalaryResponse, error)
	Pay(ctx context.Context, schoolID, actorID, id string, req PaymentRequest) (SalaryResponse, error)
	Cancel(ctx context.Context, schoolID, actorID, id string, req PaymentRequest) (SalaryResponse, error)
	BulkPay(ctx context.Context, schoolID, actorID string, req BulkPaymentRequest) (BulkPaymentResponse, error)

	Dashboard(ctx context.Context, schoolID string, query DashboardQuery) (DashboardResponse, error)
	Statistics(ctx context.Context, schoolID string, period time.Time) (StatisticsResponse, error)
	Export(ctx context.Context, schoolID string, query ListSalariesQuery) (RowSource, error)
	GeneratePayslip(ctx context.Context, schoolID, id string) (SalaryResponse, error)
	LineItemTypes() LineItemTypesResponse
}

type Options struct {
	Outbox   kafka.OutboxRepository
	Audit    bootstrap.AuditLogger
	Payslips PayslipStore
	Clock    func() time.Time
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory EmployeeDirectory
	outbox    kafka.OutboxRepository
	audit     bootstrap.AuditLogger
	payslips  PayslipStore
	clock     func() time.Time
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory EmployeeDirectory,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	audit := opts.Audit
	if audit == nil {
		audit = bootstrap.NopAuditLogger{}
	}

	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		outbox:    opts.Outbox,
		audit:     audit,
		payslips:  opts.Payslips,
		clock:     clock,
		logger:    l,
	}
}

func (s *service) now() time.Time {
	return s.clock().UTC()
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) CurrentPeriod() time.Time {
	return FirstOfMonth(s.now())
}

func (s *service) LineItemTypes() LineItemTypesResponse {
	return LineItemTypesResponse{
		AllowanceTypes:     AllowanceTypes,
		DeductionTypes:     DeductionTypes,
		PaymentMethods:     PaymentMethods,
		PaymentStatuses:    PaymentStatuses,
		PaymentFrequencies: PaymentFrequencies,
	}
}

func (s *service) Create(
	ctx context.Context,
	schoolID, actorID string,
	req CreateSalaryRequest,
) (SalaryResponse, error) {
	log := s.log(ctx)
	log.Debug("create salary requested",
		zap.String("school_id", schoolID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("month", req.Month),
	)

	rec, err := s.buildRecord(schoolID, actorID, req)
	if err != nil {
		log.Warn("create salary rejected", zap.Error(err))
		return SalaryResponse{}, err
	}

	ok, err := s.directory.Exists(ctx, schoolID, req.EmployeeID)
	if err != nil {
		log.Error("create salary employee lookup failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	if !ok {
		return SalaryResponse{}, salaryerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, rec); err != nil {
		log.Error("create salary persist failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	log.Info("create salary success",
		zap.String("salary_id", rec.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	return s.reload(ctx, schoolID, rec)
}

func (s *service) buildRecord(schoolID, actorID string, req CreateSalaryRequest) (*SalaryRecord, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return nil, salaryerrors.ErrInvalidSchoolID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, salaryerrors.ErrInvalidEmployeeID
	}
	createdBy, err := optionalUUID(actorID)
	if err != nil {
		return nil, salaryerrors.ErrInvalidActorID
	}

	period, err := ParsePeriod(req.Month)
	if err != nil {
		return nil, err
	}

	if req.BaseAmount == nil || req.BaseAmount.IsNegative() {
		return nil, salaryerrors.ErrNegativeBaseAmount
	}

	frequency := req.PaymentFrequency
	if frequency == "" {
		frequency = FrequencyMonthly
	}
	if !slices.Contains(PaymentFrequencies, frequency) {
		return nil, salaryerrors.ErrInvalidPaymentFrequency
	}

	method := req.PaymentMethod
	if method == "" {
		method = MethodBankTransfer
	}
	if !slices.Contains(PaymentMethods, method) {
		return nil, salaryerrors.ErrInvalidPaymentMethod
	}

	allowances, deductions, err := buildLines(req.Allowances, req.Deductions)
	if err != nil {
		return nil, err
	}

	rec := &SalaryRecord{
		ID:               uuid.New(),
		SchoolID:         schoolUUID,
		EmployeeID:       employeeUUID,
		Period:           period,
		BaseAmount:       req.BaseAmount.Round(2),
		PaymentFrequency: frequency,
		PaymentMethod:    method,
		PaymentStatus:    StatusPending,
		CreatedBy:        createdBy,
		Comments:         strings.TrimSpace(req.Comments),
		Allowances:       allowances,
		Deductions:       deductions,
	}

	if ComputeTotals(*rec).NetSalary.IsNegative() {
		return nil, salaryerrors.ErrNegativeNetSalary
	}
	return rec, nil
}

func (s *service) List(
	ctx context.Context,
	schoolID string,
	query ListSalariesQuery,
) (SalaryListResult, error) {
	if _, err := uuid.Parse(schoolID); err != nil {
		return SalaryListResult{}, salaryerrors.ErrInvalidSchoolID
	}

	filter, err := toListFilter(query)
	if err != nil {
		return SalaryListResult{}, err
	}

	page, perPage := normalizePage(query.Page, query.PerPage)
	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage

	records, total, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		s.log(ctx).Error("list salaries failed", zap.Error(err))
		return SalaryListResult{}, mapRepositoryError(err)
	}

	return SalaryListResult{
		Items:   mapToListResponse(records),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

func (s *service) ListByEmployee(
	ctx context.Context,
	schoolID, employeeID string,
	page, perPage int,
) (SalaryListResult, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return SalaryListResult{}, salaryerrors.ErrInvalidEmployeeID
	}
	return s.List(ctx, schoolID, ListSalariesQuery{
		EmployeeID: employeeID,
		Page:       page,
		PerPage:    perPage,
	})
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (SalaryDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryDetailResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	rec, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		return SalaryDetailResponse{}, mapRepositoryError(err)
	}

	history, err := s.repo.FindHistory(ctx, schoolID, rec.EmployeeID.String(), id, historyLimit)
	if err != nil {
		s.log(ctx).Error("load salary history failed", zap.String("salary_id", id), zap.Error(err))
		return SalaryDetailResponse{}, mapRepositoryError(err)
	}

	return SalaryDetailResponse{
		SalaryResponse: mapToResponse(*rec),
		PaymentHistory: mapToHistory(history),
	}, nil
}

func (s *service) Update(
	ctx context.Context,
	schoolID, actorID, id string,
	req UpdateSalaryRequest,
) (SalaryResponse, error) {
	log := s.log(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByIDForUpdate(ctx, schoolID, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if rec.PaymentStatus == StatusPaid {
		return SalaryResponse{}, salaryerrors.ErrPaidImmutable
	}

	if err := applyUpdate(rec, req); err != nil {
		return SalaryResponse{}, err
	}
	rec.UpdatedAt = s.now()

	if err := qtx.Update(ctx, rec); err != nil {
		log.Error("update salary persist failed", zap.String("salary_id", id), zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if req.Allowances != nil {
		if err := qtx.ReplaceAllowances(ctx, rec.ID, rec.Allowances); err != nil {
			log.Error("replace allowances failed", zap.String("salary_id", id), zap.Error(err))
			return SalaryResponse{}, mapRepositoryError(err)
		}
	}
	if req.Deductions != nil {
		if err := qtx.ReplaceDeductions(ctx, rec.ID, rec.Deductions); err != nil {
			log.Error("replace deductions failed", zap.String("salary_id", id), zap.Error(err))
			return SalaryResponse{}, mapRepositoryError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("update salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	log.Info("update salary success", zap.String("salary_id", id), zap.String("actor_id", actorID))
	return s.reload(ctx, schoolID, rec)
}

func applyUpdate(rec *SalaryRecord, req UpdateSalaryRequest) error {
	if req.Month != nil {
		period, err := ParsePeriod(*req.Month)
		if err != nil {
			return err
		}
		rec.Period = period
	}
	if req.BaseAmount != nil {
		if req.BaseAmount.IsNegative() {
			return salaryerrors.ErrNegativeBaseAmount
		}
		rec.BaseAmount = req.BaseAmount.Round(2)
	}
	if req.PaymentFrequency != nil {
		if !slices.Contains(PaymentFrequencies, *req.PaymentFrequency) {
			return salaryerrors.ErrInvalidPaymentFrequency
		}
		rec.PaymentFrequency = *req.PaymentFrequency
	}
	if req.PaymentMethod != nil {
		if !slices.Contains(PaymentMethods, *req.PaymentMethod) {
			return salaryerrors.ErrInvalidPaymentMethod
		}
		rec.PaymentMethod = *req.PaymentMethod
	}
	if req.Comments != nil {
		rec.Comments = strings.TrimSpace(*req.Comments)
	}

	var allowanceIn, deductionIn []LineItemInput
	if req.Allowances != nil {
		allowanceIn = *req.Allowances
	}
	if req.Deductions != nil {
		deductionIn = *req.Deductions
	}
	allowances, deductions, err := buildLines(allowanceIn, deductionIn)
	if err != nil {
		return err
	}
	if req.Allowances != nil {
		rec.Allowances = allowances
	}
	if req.Deductions != nil {
		rec.Deductions = deductions
	}

	if ComputeTotals(*rec).NetSalary.IsNegative() {
		return salaryerrors.ErrNegativeNetSalary
	}
	return nil
}

func (s *service) Delete(ctx context.Context, schoolID, actorID, id string) error {
	log := s.log(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return salaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete salary begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByIDForUpdate(ctx, schoolID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if rec.PaymentStatus == StatusPaid {
		return salaryerrors.ErrDeletePaid
	}

	if err := qtx.Delete(ctx, schoolID, id); err != nil {
		log.Error("delete salary failed", zap.String("salary_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete salary commit failed", zap.Error(err))
		return err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "SALARY_DELETED",
		Actor:   actorID,
		Message: "salary record deleted",
		Meta: map[string]any{
			"salary_id":   id,
			"employee_id": rec.EmployeeID.String(),
			"month":       rec.Period.Format(periodLayout),
		},
	})
	log.Info("delete salary success", zap.String("salary_id", id))
	return nil
}

// reload re-reads a record after commit so the response carries the
// employee directory fields.
func (s *service) reload(ctx context.Context, schoolID string, rec *SalaryRecord) (SalaryResponse, error) {
	fresh, err := s.repo.FindByID(ctx, schoolID, rec.ID.String())
	if err != nil {
		s.log(ctx).Warn("reload salary failed, returning in-memory copy",
			zap.String("salary_id", rec.ID.String()),
			zap.Error(err),
		)
		return mapToResponse(*rec), nil
	}
	return mapToResponse(*fresh), nil
}

type lineViolation struct {
	Field  string `json:"field"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func checkLines(field string, in []LineItemInput, allowedTypes []string) []lineViolation {
	var out []lineViolation
	for i, item := range in {
		switch {
		case !slices.Contains(allowedTypes, item.Type):
			out = append(out, lineViolation{Field: field, Index: i, Reason: "unknown type " + item.Type})
		case strings.TrimSpace(item.Name) == "":
			out = append(out, lineViolation{Field: field, Index: i, Reason: "name is required"})
		case len(item.Name) > 100:
			out = append(out, lineViolation{Field: field, Index: i, Reason: "name is longer than 100 characters"})
		case item.Amount == nil:
			out = append(out, lineViolation{Field: field, Index: i, Reason: "amount is required"})
		case item.Amount.IsNegative():
			out = append(out, lineViolation{Field: field, Index: i, Reason: "amount cannot be negative"})
		}
	}
	return out
}

func buildLines(allowanceIn, deductionIn []LineItemInput) ([]AllowanceLine, []DeductionLine, error) {
	violations := append(
		checkLines("allowances", allowanceIn, AllowanceTypes),
		checkLines("deductions", deductionIn, DeductionTypes)...,
	)
	if len(violations) > 0 {
		return nil, nil, salaryerrors.ErrInvalidLineItems.WithDetails(violations)
	}

	allowances := make([]AllowanceLine, 0, len(allowanceIn))
	for _, in := range allowanceIn {
		allowances = append(allowances, AllowanceLine{
			ID:     uuid.New(),
			Type:   in.Type,
			Name:   strings.TrimSpace(in.Name),
			Amount: in.Amount.Round(2),
		})
	}

	deductions := make([]DeductionLine, 0, len(deductionIn))
	for _, in := range deductionIn {
		deductions = append(deductions, DeductionLine{
			ID:     uuid.New(),
			Type:   in.Type,
			Name:   strings.TrimSpace(in.Name),
			Amount: in.Amount.Round(2),
		})
	}

	return allowances, deductions, nil
}

func toListFilter(q ListSalariesQuery) (ListFilter, error) {
	f := ListFilter{
		Dimensions: DimensionFilter{
			Department:     q.Department,
			StaffCategory:  q.StaffCategory,
			EmploymentType: q.EmploymentType,
		},
		Position:      q.Position,
		PaymentStatus: q.PaymentStatus,
		PaymentMethod: q.PaymentMethod,
		EmployeeID:    q.EmployeeID,
		Search:        q.Search,
	}

	if q.PaymentStatus != "" && !slices.Contains(PaymentStatuses, q.PaymentStatus) {
		return ListFilter{}, salaryerrors.ErrInvalidPaymentStatus
	}
	if q.PaymentMethod != "" && !slices.Contains(PaymentMethods, q.PaymentMethod) {
		return ListFilter{}, salaryerrors.ErrInvalidPaymentMethod
	}
	if q.EmployeeID != "" {
		if _, err := uuid.Parse(q.EmployeeID); err != nil {
			return ListFilter{}, salaryerrors.ErrInvalidEmployeeID
		}
	}

	if strings.TrimSpace(q.Month) != "" {
		period, err := ParsePeriod(q.Month)
		if err != nil {
			return ListFilter{}, err
		}
		f.Period = &period
	}

	for _, bound := range []struct {
		raw string
		dst **decimal.Decimal
	}{
		{q.MinSalary, &f.MinBase},
		{q.MaxSalary, &f.MaxBase},
	} {
		if strings.TrimSpace(bound.raw) == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(bound.raw))
		if err != nil {
			return ListFilter{}, salaryerrors.ErrInvalidAmountFilter
		}
		*bound.dst = &d
	}

	orderBy, ok := resolveOrdering(q.Ordering)
	if !ok {
		return ListFilter{}, salaryerrors.ErrInvalidOrdering.WithDetails(q.Ordering)
	}
	f.OrderBy = orderBy

	return f, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func optionalUUID(v string) (*uuid.UUID, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func mapLines[T AllowanceLine | DeductionLine](lines []T, view func(T) LineItemResponse) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, view(l))
	}
	return out
}

func mapToResponse(rec SalaryRecord) SalaryResponse {
	totals := ComputeTotals(rec)

	resp := SalaryResponse{
		ID:               rec.ID.String(),
		SchoolID:         rec.SchoolID.String(),
		EmployeeID:       rec.EmployeeID.String(),
		Month:            rec.Period.Format(periodDateLayout),
		MonthDisplay:     PeriodLabel(rec.Period),
		BaseAmount:       money(rec.BaseAmount),
		PaymentFrequency: rec.PaymentFrequency,
		PaymentMethod:    rec.PaymentMethod,
		PaymentStatus:    rec.PaymentStatus,
		PaymentDate:      formatTime(rec.PaidAt),
		PaidBy:           uuidString(rec.PaidBy),
		CreatedBy:        uuidString(rec.CreatedBy),
		Comments:         rec.Comments,
		Allowances: mapLines(rec.Allowances, func(a AllowanceLine) LineItemResponse {
			return LineItemResponse{ID: a.ID.String(), Type: a.Type, Name: a.Name, Amount: money(a.Amount)}
		}),
		Deductions: mapLines(rec.Deductions, func(d DeductionLine) LineItemResponse {
			return LineItemResponse{ID: d.ID.String(), Type: d.Type, Name: d.Name, Amount: money(d.Amount)}
		}),
		TotalAllowances: money(totals.TotalAllowances),
		TotalDeductions: money(totals.TotalDeductions),
		GrossSalary:     money(totals.GrossSalary),
		NetSalary:       money(totals.NetSalary),
		PayslipURL:      rec.PayslipURL,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       rec.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if rec.Employee != nil {
		resp.Employee = &EmployeeSummary{
			ID:             rec.Employee.ID.String(),
			EmployeeNumber: rec.Employee.EmployeeNumber,
			FullName:       rec.Employee.FullName,
			Email:          rec.Employee.Email,
			Department:     rec.Employee.DepartmentName(),
			Position:       rec.Employee.PositionName(),
			StaffCategory:  rec.Employee.StaffCategory,
			EmploymentType: rec.Employee.EmploymentType,
		}
	}

	return resp
}

func mapToListResponse(records []SalaryRecord) []SalaryResponse {
	out := make([]SalaryResponse, len(records))
	for i, rec := range records {
		out[i] = mapToResponse(rec)
	}
	return out
}

func mapToHistory(records []SalaryRecord) []PaymentHistoryItem {
	out := make([]PaymentHistoryItem, 0, len(records))
	for _, rec := range records {
		out = append(out, PaymentHistoryItem{
			ID:            rec.ID.String(),
			Month:         rec.Period.Format(periodDateLayout),
			MonthDisplay:  PeriodLabel(rec.Period),
			BaseAmount:    money(rec.BaseAmount),
			NetSalary:     money(ComputeTotals(rec).NetSalary),
			PaymentStatus: rec.PaymentStatus,
			PaymentDate:   formatTime(rec.PaidAt),
		})
	}
	return out
}
