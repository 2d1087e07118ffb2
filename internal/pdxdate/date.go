// Package pdxdate implements the game calendar date used by script files.
// Dates are plain year.month.day triples (e.g. 1444.11.11); time.Time is not
// used because game dates predate its supported range semantics and carry no
// time zone or clock component.
package pdxdate

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a calendar date in game time. The zero value is "no date".
type Date struct {
	Year  int
	Month int
	Day   int
}

// Parse parses a date in Y.M.D form. It accepts any digit run per component;
// callers rely on the lexer having already matched the overall shape.
func Parse(s string) (Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("parse date %q: want Y.M.D", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("parse date %q: %w", s, err)
		}
		nums[i] = n
	}
	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("parse date %q: out of range", s)
	}
	return d, nil
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0, or 1 as d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Year, d.Month, d.Day)
}

// Max is a date after every representable game date, used as the default
// resolution target ("latest state").
var Max = Date{Year: 1 << 30, Month: 12, Day: 31}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
