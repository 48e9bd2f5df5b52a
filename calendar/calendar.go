package calendar

import "time"

// CalendarID identifies a trading calendar.
type CalendarID string

const (
	// CHN is the Shanghai/Shenzhen exchange calendar the convertible-bond
	// market trades on.
	CHN CalendarID = "CHN"
)

var chnHolidays = map[string]struct{}{}

func init() {
	chnHolidays = make(map[string]struct{}, len(chinaHolidayList))
	for _, h := range chinaHolidayList {
		chnHolidays[h] = struct{}{}
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case CHN:
		_, ok := chnHolidays[key]
		return ok
	default:
		return false
	}
}

// IsTradingDay checks weekends and the exchange holiday set.
func IsTradingDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AddTradingDays walks n trading days forward (or backward for negative n).
func AddTradingDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		t = t.AddDate(0, 0, step)
		if IsTradingDay(cal, t) {
			n--
		}
	}
	return t
}

// CountTradingDays counts trading days in (start, end], exclusive of start.
func CountTradingDays(cal CalendarID, start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	count := 0
	for d := start.AddDate(0, 0, 1); !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(cal, d) {
			count++
		}
	}
	return count
}
