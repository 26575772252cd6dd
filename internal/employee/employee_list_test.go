package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeListQuery_Shape(t *testing.T) {
	all := []EmployeeResponse{
		{ID: "1", FullName: "Nadia Islam", EmployeeNumber: "T-003", EmploymentType: "full_time", Department: &EmployeeDepartmentResponse{Name: "Science"}},
		{ID: "2", FullName: "Arif Hossain", EmployeeNumber: "T-001", EmploymentType: "part_time", Department: &EmployeeDepartmentResponse{Name: "Arts"}},
		{ID: "3", FullName: "Mitu Das", EmployeeNumber: "T-002", EmploymentType: "FULL_TIME"},
	}

	tests := []struct {
		name    string
		query   EmployeeListQuery
		wantIDs []string
		total   int64
	}{
		{"default name order", EmployeeListQuery{}, []string{"2", "3", "1"}, 3},
		{"number desc", EmployeeListQuery{SortBy: "employee_number", SortDir: "DESC"}, []string{"1", "3", "2"}, 3},
		{"department", EmployeeListQuery{Department: "science"}, []string{"1"}, 1},
		{"employment type ignores case", EmployeeListQuery{EmploymentType: "full_time"}, []string{"3", "1"}, 2},
		{"second page", EmployeeListQuery{Page: 2, PageSize: 2}, []string{"1"}, 3},
		{"unknown sort falls back to name", EmployeeListQuery{SortBy: "salary"}, []string{"2", "3", "1"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _, _, total := tt.query.shape(all)

			ids := make([]string, 0, len(page))
			for _, e := range page {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, total)
		})
	}
}
