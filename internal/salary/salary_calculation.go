package salary

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	TotalAllowances decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal
}

// ComputeTotals derives the money figures of a record from its lines.
// It is recomputed on every call; nothing is cached on the record.
func ComputeTotals(rec SalaryRecord) Totals {
	allowances := decimal.Zero
	for _, a := range rec.Allowances {
		allowances = allowances.Add(a.Amount)
	}

	deductions := decimal.Zero
	for _, d := range rec.Deductions {
		deductions = deductions.Add(d.Amount)
	}

	gross := rec.BaseAmount.Add(allowances)
	return Totals{
		TotalAllowances: allowances,
		TotalDeductions: deductions,
		GrossSalary:     gross,
		NetSalary:       gross.Sub(deductions),
	}
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionSame Direction = "same"
)

// PercentChange carries the magnitude (never negative, 2 dp) and the
// direction separately.
type PercentChange struct {
	Percent   decimal.Decimal
	Direction Direction
}

func ComputePercentChange(current, previous decimal.Decimal) PercentChange {
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return PercentChange{Percent: hundred, Direction: DirectionUp}
		}
		return PercentChange{Percent: decimal.Zero, Direction: DirectionSame}
	}

	diff := current.Sub(previous)
	pct := diff.Abs().Mul(hundred).Div(previous.Abs()).Round(2)

	switch diff.Sign() {
	case 1:
		return PercentChange{Percent: pct, Direction: DirectionUp}
	case -1:
		return PercentChange{Percent: pct, Direction: DirectionDown}
	default:
		return PercentChange{Percent: decimal.Zero, Direction: DirectionSame}
	}
}

type Metrics struct {
	TotalDisbursement decimal.Decimal
	AverageSalary     decimal.Decimal
	TotalEmployees    int
	PendingCount      int
	PaidCount         int
	ProcessingCount   int
	CancelledCount    int
	TotalBase         decimal.Decimal
	TotalAllowances   decimal.Decimal
	TotalDeductions   decimal.Decimal
}

// AggregateMetrics folds a set of records (usually one month) into the
// dashboard figures. An empty set yields zeros.
func AggregateMetrics(records []SalaryRecord) Metrics {
	m := Metrics{
		TotalDisbursement: decimal.Zero,
		AverageSalary:     decimal.Zero,
		TotalBase:         decimal.Zero,
		TotalAllowances:   decimal.Zero,
		TotalDeductions:   decimal.Zero,
	}

	for _, rec := range records {
		t := ComputeTotals(rec)
		m.TotalDisbursement = m.TotalDisbursement.Add(t.NetSalary)
		m.TotalBase = m.TotalBase.Add(rec.BaseAmount)
		m.TotalAllowances = m.TotalAllowances.Add(t.TotalAllowances)
		m.TotalDeductions = m.TotalDeductions.Add(t.TotalDeductions)

		switch rec.PaymentStatus {
		case StatusPending:
			m.PendingCount++
		case StatusPaid:
			m.PaidCount++
		case StatusProcessing:
			m.ProcessingCount++
		case StatusCancelled:
			m.CancelledCount++
		}
	}

	m.TotalEmployees = len(records)
	if m.TotalEmployees > 0 {
		m.AverageSalary = m.TotalDisbursement.Div(decimal.NewFromInt(int64(m.TotalEmployees))).Round(2)
	}

	return m
}
