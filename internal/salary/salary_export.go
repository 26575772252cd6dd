package salary

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"

	exportSheet      = "Sheet1"
	exportDateLayout = "2006-01-02 15:04"
)

var ExportHeaders = []string{
	"Employee ID",
	"Employee Name",
	"Department",
	"Position",
	"Employment Type",
	"Month",
	"Basic Salary",
	"Allowances",
	"Allowances Breakdown",
	"Deductions",
	"Deductions Breakdown",
	"Net Salary",
	"Payment Status",
	"Payment Method",
	"Payment Date",
}

type ExportRow struct {
	EmployeeNumber      string
	EmployeeName        string
	Department          string
	Position            string
	EmploymentType      string
	Month               string
	BaseAmount          decimal.Decimal
	TotalAllowances     decimal.Decimal
	AllowancesBreakdown string
	TotalDeductions     decimal.Decimal
	DeductionsBreakdown string
	NetSalary           decimal.Decimal
	PaymentStatus       string
	PaymentMethod       string
	PaymentDate         string
}

func (r ExportRow) Strings() []string {
	return []string{
		r.EmployeeNumber,
		r.EmployeeName,
		r.Department,
		r.Position,
		r.EmploymentType,
		r.Month,
		money(r.BaseAmount),
		money(r.TotalAllowances),
		r.AllowancesBreakdown,
		money(r.TotalDeductions),
		r.DeductionsBreakdown,
		money(r.NetSalary),
		r.PaymentStatus,
		r.PaymentMethod,
		r.PaymentDate,
	}
}

// cells is the spreadsheet form of the row; money columns stay numeric.
func (r ExportRow) cells() []any {
	return []any{
		r.EmployeeNumber,
		r.EmployeeName,
		r.Department,
		r.Position,
		r.EmploymentType,
		r.Month,
		r.BaseAmount.InexactFloat64(),
		r.TotalAllowances.InexactFloat64(),
		r.AllowancesBreakdown,
		r.TotalDeductions.InexactFloat64(),
		r.DeductionsBreakdown,
		r.NetSalary.InexactFloat64(),
		r.PaymentStatus,
		r.PaymentMethod,
		r.PaymentDate,
	}
}

// RowSource turns an ordered record set into export rows on demand. Each can
// be called any number of times and yields the same rows.
type RowSource struct {
	records []SalaryRecord
}

func NewRowSource(records []SalaryRecord) RowSource {
	return RowSource{records: records}
}

func (s RowSource) Len() int {
	return len(s.records)
}

func (s RowSource) Each(fn func(ExportRow) error) error {
	for _, rec := range s.records {
		if err := fn(toExportRow(rec)); err != nil {
			return err
		}
	}
	return nil
}

func breakdown[T AllowanceLine | DeductionLine](lines []T, part func(T) (string, decimal.Decimal)) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		name, amount := part(l)
		parts = append(parts, fmt.Sprintf("%s: %s", name, money(amount)))
	}
	return strings.Join(parts, ", ")
}

func toExportRow(rec SalaryRecord) ExportRow {
	totals := ComputeTotals(rec)

	row := ExportRow{
		Month:           PeriodLabel(rec.Period),
		BaseAmount:      rec.BaseAmount,
		TotalAllowances: totals.TotalAllowances,
		AllowancesBreakdown: breakdown(rec.Allowances, func(a AllowanceLine) (string, decimal.Decimal) {
			return a.Name, a.Amount
		}),
		TotalDeductions: totals.TotalDeductions,
		DeductionsBreakdown: breakdown(rec.Deductions, func(d DeductionLine) (string, decimal.Decimal) {
			return d.Name, d.Amount
		}),
		NetSalary:     totals.NetSalary,
		PaymentStatus: rec.PaymentStatus,
		PaymentMethod: rec.PaymentMethod,
	}
	if rec.PaidAt != nil {
		row.PaymentDate = rec.PaidAt.UTC().Format(exportDateLayout)
	}
	if e := rec.Employee; e != nil {
		row.EmployeeNumber = e.EmployeeNumber
		row.EmployeeName = e.FullName
		row.Department = e.DepartmentName()
		row.Position = e.PositionName()
		row.EmploymentType = e.EmploymentType
	}
	return row
}

func (s *service) Export(ctx context.Context, schoolID string, query ListSalariesQuery) (RowSource, error) {
	filter, err := toListFilter(query)
	if err != nil {
		return RowSource{}, err
	}

	records, _, err := s.repo.List(ctx, schoolID, filter)
	if err != nil {
		s.log(ctx).Error("export salaries failed", zap.Error(err))
		return RowSource{}, mapRepositoryError(err)
	}

	s.log(ctx).Info("export salaries", zap.Int("rows", len(records)))
	return NewRowSource(records), nil
}

func ExportFilename(period time.Time, format string) string {
	return fmt.Sprintf("salaries_%s.%s", FirstOfMonth(period).Format(periodLayout), format)
}

func ExportContentType(format string) string {
	if format == ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

func WriteCSV(w io.Writer, src RowSource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeaders); err != nil {
		return err
	}
	if err := src.Each(func(row ExportRow) error {
		return cw.Write(row.Strings())
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, src RowSource) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}

	header := make([]any, len(ExportHeaders))
	for i, h := range ExportHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	rowNum := 2
	if err := src.Each(func(row ExportRow) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		rowNum++
		return sw.SetRow(cell, row.cells())
	}); err != nil {
		return err
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}
