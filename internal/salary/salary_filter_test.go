package salary

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestResolveOrdering(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", defaultOrdering, true},
		{"-month", "salary_records.period DESC, salary_records.id ASC", true},
		{"department, -basic_salary", "departments.name ASC, salary_records.base_amount DESC, salary_records.id ASC", true},
		{"password", "", false},
		{"month;DROP TABLE x", "", false},
	}

	for _, tt := range tests {
		got, ok := resolveOrdering(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, containsPattern("50% off_now"))
}

func TestApplyDimensions(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	assert.NoError(t, err)

	var records []SalaryRecord
	stmt := applyDimensions(db.Model(&SalaryRecord{}), DimensionFilter{
		Department:     "Science",
		EmploymentType: "Full_Time",
	}).Find(&records).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "departments.name ILIKE $1")
	assert.Contains(t, sql, "LOWER(employees.employment_type) = LOWER($2)")
	assert.NotContains(t, sql, "staff_category")
	assert.Equal(t, []any{`%Science%`, "Full_Time"}, stmt.Vars)
}
