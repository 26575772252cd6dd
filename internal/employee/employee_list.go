package employee

import (
	"cmp"
	"slices"
	"strings"
)

const defaultPageSize = 10

func (q EmployeeListQuery) matches(e EmployeeResponse) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Q)); term != "" {
		hit := false
		for _, field := range []string{e.FullName, e.Email, e.EmployeeNumber} {
			if strings.Contains(strings.ToLower(field), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if v := strings.TrimSpace(q.Department); v != "" {
		if e.Department == nil || !strings.EqualFold(e.Department.Name, v) {
			return false
		}
	}
	if v := strings.TrimSpace(q.StaffCategory); v != "" && !strings.EqualFold(e.StaffCategory, v) {
		return false
	}
	if v := strings.TrimSpace(q.EmploymentType); v != "" && !strings.EqualFold(e.EmploymentType, v) {
		return false
	}
	return true
}

var sortKeys = map[string]func(EmployeeResponse) string{
	"name":            func(e EmployeeResponse) string { return strings.ToLower(e.FullName) },
	"email":           func(e EmployeeResponse) string { return strings.ToLower(e.Email) },
	"employee_number": func(e EmployeeResponse) string { return e.EmployeeNumber },
}

// shape filters, orders and pages the directory listing. It returns the
// page and the number of matches before paging.
func (q EmployeeListQuery) shape(all []EmployeeResponse) ([]EmployeeResponse, int, int, int64) {
	out := make([]EmployeeResponse, 0, len(all))
	for _, e := range all {
		if q.matches(e) {
			out = append(out, e)
		}
	}

	key, ok := sortKeys[strings.ToLower(strings.TrimSpace(q.SortBy))]
	if !ok {
		key = sortKeys["name"]
	}
	desc := strings.EqualFold(strings.TrimSpace(q.SortDir), "desc")
	slices.SortStableFunc(out, func(a, b EmployeeResponse) int {
		if desc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})

	page := max(q.Page, 1)
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	start := min((page-1)*size, len(out))
	end := min(start+size, len(out))

	return out[start:end], page, size, int64(len(out))
}
