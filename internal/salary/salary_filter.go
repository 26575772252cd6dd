package salary

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DimensionFilter holds the employee attributes the dashboard and the list
// can be sliced by. Empty fields are ignored.
type DimensionFilter struct {
	Department     string
	StaffCategory  string
	EmploymentType string
}

type dimension struct {
	predicate string
	value     func(DimensionFilter) string
	arg       func(string) any
}

// filterDimensions is the closed set of slice dimensions. Both the current
// and the previous month go through the same set.
var filterDimensions = []dimension{
	{
		predicate: "departments.name ILIKE ?",
		value:     func(f DimensionFilter) string { return f.Department },
		arg:       containsPattern,
	},
	{
		predicate: "employees.staff_category ILIKE ?",
		value:     func(f DimensionFilter) string { return f.StaffCategory },
		arg:       containsPattern,
	},
	{
		predicate: "LOWER(employees.employment_type) = LOWER(?)",
		value:     func(f DimensionFilter) string { return f.EmploymentType },
		arg:       func(v string) any { return v },
	},
}

func applyDimensions(db *gorm.DB, f DimensionFilter) *gorm.DB {
	for _, d := range filterDimensions {
		v := strings.TrimSpace(d.value(f))
		if v == "" {
			continue
		}
		db = db.Where(d.predicate, d.arg(v))
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(v string) any {
	return "%" + likeEscaper.Replace(v) + "%"
}

// ListFilter is the validated form of ListSalariesQuery.
type ListFilter struct {
	Period        *time.Time
	Dimensions    DimensionFilter
	Position      string
	PaymentStatus string
	PaymentMethod string
	EmployeeID    string
	IDs           []string
	Search        string
	MinBase       *decimal.Decimal
	MaxBase       *decimal.Decimal
	OrderBy       string
	Limit         int
	Offset        int
}

const defaultOrdering = "salary_records.period DESC, salary_records.created_at DESC"

var orderingColumns = map[string]string{
	"month":          "salary_records.period",
	"basic_salary":   "salary_records.base_amount",
	"payment_status": "salary_records.payment_status",
	"payment_date":   "salary_records.paid_at",
	"created_at":     "salary_records.created_at",
	"employee_name":  "employees.full_name",
	"department":     "departments.name",
}

// resolveOrdering turns "-month,employee_name" into a safe ORDER BY clause.
func resolveOrdering(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return defaultOrdering, true
	}

	parts := strings.Split(v, ",")
	clauses := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		dir := "ASC"
		if strings.HasPrefix(p, "-") {
			dir = "DESC"
			p = strings.TrimPrefix(p, "-")
		}
		col, ok := orderingColumns[p]
		if !ok {
			return "", false
		}
		clauses = append(clauses, col+" "+dir)
	}
	clauses = append(clauses, "salary_records.id ASC")
	return strings.Join(clauses, ", "), true
}

func applyListFilter(db *gorm.DB, f ListFilter) *gorm.DB {
	db = applyDimensions(db, f.Dimensions)

	if f.Period != nil {
		db = db.Where("salary_records.period = ?", *f.Period)
	}
	if v := strings.TrimSpace(f.Position); v != "" {
		db = db.Where("positions.name ILIKE ?", containsPattern(v))
	}
	if f.PaymentStatus != "" {
		db = db.Where("salary_records.payment_status = ?", f.PaymentStatus)
	}
	if f.PaymentMethod != "" {
		db = db.Where("salary_records.payment_method = ?", f.PaymentMethod)
	}
	if f.EmployeeID != "" {
		db = db.Where("salary_records.employee_id = ?", f.EmployeeID)
	}
	if len(f.IDs) > 0 {
		db = db.Where("salary_records.id IN ?", f.IDs)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		pattern := containsPattern(v)
		db = db.Where(
			"(employees.full_name ILIKE ? OR employees.email ILIKE ? OR employees.employee_number ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if f.MinBase != nil {
		db = db.Where("salary_records.base_amount >= ?", *f.MinBase)
	}
	if f.MaxBase != nil {
		db = db.Where("salary_records.base_amount <= ?", *f.MaxBase)
	}
	return db
}
