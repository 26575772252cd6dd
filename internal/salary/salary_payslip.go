package salary

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
)

type PayslipStore interface {
	// Save stores a rendered payslip and returns the URL it is served from.
	Save(ctx context.Context, name string, content []byte) (string, error)
}

type LocalPayslipStore struct {
	dir     string
	baseURL string
}

func NewLocalPayslipStore(dir, baseURL string) *LocalPayslipStore {
	return &LocalPayslipStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalPayslipStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create payslip dir: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write payslip: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func payslipName(rec SalaryRecord) string {
	return fmt.Sprintf("%s/%s_%s.pdf", rec.SchoolID, rec.Period.Format(periodLayout), rec.ID)
}

// GeneratePayslip renders the payslip of a paid record, stores it and keeps
// the URL on the record. Calling it again overwrites the previous file.
func (s *service) GeneratePayslip(ctx context.Context, schoolID, id string) (SalaryResponse, error) {
	log := s.log(ctx).With(zap.String("salary_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}
	if s.payslips == nil {
		return SalaryResponse{}, salaryerrors.ErrPayslipNotGenerated
	}

	rec, err := s.repo.FindByID(ctx, schoolID, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if rec.PaymentStatus != StatusPaid {
		return SalaryResponse{}, salaryerrors.ErrPayslipUnpaid
	}

	pdf, err := buildPayslipPDF(payslipLines(*rec))
	if err != nil {
		log.Error("render payslip failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	url, err := s.payslips.Save(ctx, payslipName(*rec), pdf)
	if err != nil {
		log.Error("store payslip failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	now := s.now()
	if err := s.repo.SetPayslip(ctx, schoolID, id, url, now); err != nil {
		log.Error("save payslip url failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}

	rec.PayslipURL = &url
	rec.PayslipGeneratedAt = &now
	log.Info("payslip generated", zap.String("url", url))
	return mapToResponse(*rec), nil
}

func payslipLines(rec SalaryRecord) []string {
	totals := ComputeTotals(rec)

	lines := []string{
		"Salary Payslip - " + PeriodLabel(rec.Period),
		"",
	}
	if e := rec.Employee; e != nil {
		lines = append(lines,
			"Employee: "+e.FullName+" ("+e.EmployeeNumber+")",
			"Department: "+e.DepartmentName(),
			"Position: "+e.PositionName(),
			"",
		)
	}

	lines = append(lines, "Basic Salary: "+money(rec.BaseAmount), "", "Allowances:")
	for _, a := range rec.Allowances {
		lines = append(lines, fmt.Sprintf("  %s (%s): %s", a.Name, a.Type, money(a.Amount)))
	}
	lines = append(lines, "Total Allowances: "+money(totals.TotalAllowances), "", "Deductions:")
	for _, d := range rec.Deductions {
		lines = append(lines, fmt.Sprintf("  %s (%s): %s", d.Name, d.Type, money(d.Amount)))
	}
	lines = append(lines,
		"Total Deductions: "+money(totals.TotalDeductions),
		"",
		"Gross Salary: "+money(totals.GrossSalary),
		"Net Salary: "+money(totals.NetSalary),
		"",
		"Payment Method: "+rec.PaymentMethod,
	)
	if rec.PaidAt != nil {
		lines = append(lines, "Paid At: "+rec.PaidAt.UTC().Format(exportDateLayout))
	}
	return lines
}

// buildPayslipPDF writes a single-page PDF with one text line per entry,
// using the built-in Helvetica font.
func buildPayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			fmt.Fprintf(&content, "(%s) Tj\n", escaped)
			continue
		}
		fmt.Fprintf(&content, "T* (%s) Tj\n", escaped)
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)
	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(offsets))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart)

	return out.Bytes(), nil
}

var pdfEscaper = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)

func pdfEscape(v string) string {
	return pdfEscaper.Replace(v)
}
