package salary

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
)

const unassignedDepartment = "Unassigned"

type DashboardQuery struct {
	Period     time.Time
	Dimensions DimensionFilter
}

func (s *service) Dashboard(ctx context.Context, schoolID string, query DashboardQuery) (DashboardResponse, error) {
	if _, err := uuid.Parse(schoolID); err != nil {
		return DashboardResponse{}, salaryerrors.ErrInvalidSchoolID
	}

	period := FirstOfMonth(query.Period)
	current, err := s.repo.FindForPeriod(ctx, schoolID, period, query.Dimensions)
	if err != nil {
		s.log(ctx).Error("dashboard current period failed", zap.Error(err))
		return DashboardResponse{}, mapRepositoryError(err)
	}
	previous, err := s.repo.FindForPeriod(ctx, schoolID, PreviousPeriod(period), query.Dimensions)
	if err != nil {
		s.log(ctx).Error("dashboard previous period failed", zap.Error(err))
		return DashboardResponse{}, mapRepositoryError(err)
	}

	return buildDashboard(period, current, previous), nil
}

// buildDashboard compares two already-filtered months. period is taken as
// given; nothing here reads the clock.
func buildDashboard(period time.Time, current, previous []SalaryRecord) DashboardResponse {
	cur := AggregateMetrics(current)
	prev := AggregateMetrics(previous)

	disbursement := ComputePercentChange(cur.TotalDisbursement, prev.TotalDisbursement)
	employees := ComputePercentChange(
		decimal.NewFromInt(int64(cur.TotalEmployees)),
		decimal.NewFromInt(int64(prev.TotalEmployees)),
	)
	average := ComputePercentChange(cur.AverageSalary, prev.AverageSalary)

	return DashboardResponse{
		TotalSalaryDisbursement:     money(cur.TotalDisbursement),
		DisbursementChangePercent:   money(disbursement.Percent),
		DisbursementChangeDirection: string(disbursement.Direction),
		TotalEmployees:              cur.TotalEmployees,
		EmployeesChangePercent:      money(employees.Percent),
		EmployeesChangeDirection:    string(employees.Direction),
		AverageSalary:               money(cur.AverageSalary),
		AverageChangePercent:        money(average.Percent),
		AverageChangeDirection:      string(average.Direction),
		PendingApprovals:            cur.PendingCount,
		PaidCount:                   cur.PaidCount,
		TotalAllowances:             money(cur.TotalAllowances),
		TotalDeductions:             money(cur.TotalDeductions),
		CurrentMonth:                period.Format(periodDateLayout),
		CurrentMonthDisplay:         PeriodLabel(period),
	}
}

func (s *service) Statistics(ctx context.Context, schoolID string, period time.Time) (StatisticsResponse, error) {
	if _, err := uuid.Parse(schoolID); err != nil {
		return StatisticsResponse{}, salaryerrors.ErrInvalidSchoolID
	}

	period = FirstOfMonth(period)
	records, err := s.repo.FindForPeriod(ctx, schoolID, period, DimensionFilter{})
	if err != nil {
		s.log(ctx).Error("statistics load failed", zap.Error(err))
		return StatisticsResponse{}, mapRepositoryError(err)
	}

	return buildStatistics(period, records), nil
}

type departmentAgg struct {
	name      string
	totalBase decimal.Decimal
	totalNet  decimal.Decimal
	count     int
	paid      int
	pending   int
}

func buildStatistics(period time.Time, records []SalaryRecord) StatisticsResponse {
	byName := make(map[string]*departmentAgg)
	for _, rec := range records {
		name := rec.Employee.DepartmentName()
		if name == "" {
			name = unassignedDepartment
		}

		agg, ok := byName[name]
		if !ok {
			agg = &departmentAgg{name: name, totalBase: decimal.Zero, totalNet: decimal.Zero}
			byName[name] = agg
		}
		agg.totalBase = agg.totalBase.Add(rec.BaseAmount)
		agg.totalNet = agg.totalNet.Add(ComputeTotals(rec).NetSalary)
		agg.count++
		switch rec.PaymentStatus {
		case StatusPaid:
			agg.paid++
		case StatusPending:
			agg.pending++
		}
	}

	aggs := make([]*departmentAgg, 0, len(byName))
	for _, agg := range byName {
		aggs = append(aggs, agg)
	}
	sort.Slice(aggs, func(i, j int) bool {
		if c := aggs[i].totalBase.Cmp(aggs[j].totalBase); c != 0 {
			return c > 0
		}
		return aggs[i].name < aggs[j].name
	})

	breakdown := make([]DepartmentBreakdown, 0, len(aggs))
	for _, agg := range aggs {
		breakdown = append(breakdown, DepartmentBreakdown{
			Department:    agg.name,
			TotalSalary:   money(agg.totalBase),
			TotalNet:      money(agg.totalNet),
			EmployeeCount: agg.count,
			PaidCount:     agg.paid,
			PendingCount:  agg.pending,
		})
	}

	m := AggregateMetrics(records)
	return StatisticsResponse{
		Month:        period.Format(periodDateLayout),
		ByDepartment: breakdown,
		PaymentStatusSummary: PaymentStatusSummary{
			Total:      m.TotalEmployees,
			Paid:       m.PaidCount,
			Pending:    m.PendingCount,
			Processing: m.ProcessingCount,
			Cancelled:  m.CancelledCount,
		},
	}
}
