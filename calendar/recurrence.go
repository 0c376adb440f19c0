package calendar

import (
	"fmt"
	"strings"

	"github.com/zostay/go-pstmail/item"
)

var frequencies = map[item.Frequency]string{
	item.Daily:   "DAILY",
	item.Weekly:  "WEEKLY",
	item.Monthly: "MONTHLY",
	item.Yearly:  "YEARLY",
}

var weekdays = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// bydayBits is the number of weekday mask bits inspected when building BYDAY.
// Saturday (bit 6) is not inspected.
const bydayBits = 6

// RRule returns the RRULE line for r. The parts are always written in the
// same order: FREQ, COUNT, INTERVAL, BYMONTHDAY, BYMONTH, BYSETPOS, BYDAY.
// An interval of 1 is the default and is omitted.
func RRule(r *item.Recurrence) string {
	freq, ok := frequencies[r.Frequency]
	if !ok {
		freq = frequencies[item.Daily]
	}

	var b strings.Builder
	b.WriteString("RRULE:FREQ=")
	b.WriteString(freq)

	if r.Count != 0 {
		fmt.Fprintf(&b, ";COUNT=%d", r.Count)
	}
	if r.Interval != 0 && r.Interval != 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Interval)
	}
	if r.DayOfMonth != 0 {
		fmt.Fprintf(&b, ";BYMONTHDAY=%d", r.DayOfMonth)
	}
	if r.MonthOfYear != 0 {
		fmt.Fprintf(&b, ";BYMONTH=%d", r.MonthOfYear)
	}
	if r.Position != 0 {
		fmt.Fprintf(&b, ";BYSETPOS=%d", r.Position)
	}

	days := make([]string, 0, bydayBits)
	for i := 0; i < bydayBits; i++ {
		if r.WeekdayMask&(1<<i) != 0 {
			days = append(days, weekdays[i])
		}
	}
	if len(days) > 0 {
		b.WriteString(";BYDAY=")
		b.WriteString(strings.Join(days, ";"))
	}

	return b.String()
}
