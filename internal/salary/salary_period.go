package salary

import (
	"strings"
	"time"

	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
)

const (
	periodLayout      = "2006-01"
	periodDateLayout  = "2006-01-02"
	periodLabelLayout = "January 2006"
)

// FirstOfMonth normalises t to 00:00 UTC on the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func PreviousPeriod(period time.Time) time.Time {
	return FirstOfMonth(period).AddDate(0, -1, 0)
}

// ParsePeriod accepts 2025-05, 2025-05-17 and "May 2025".
func ParsePeriod(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{periodLayout, periodDateLayout, periodLabelLayout} {
		if t, err := time.Parse(layout, v); err == nil {
			return FirstOfMonth(t), nil
		}
	}
	return time.Time{}, salaryerrors.ErrInvalidPeriod
}

func PeriodLabel(period time.Time) string {
	return period.Format(periodLabelLayout)
}
