package timezone

import (
	"time"

	_ "time/tzdata"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Tehran")
	if err != nil {
		panic(err)
	}
}

// dates are shown to users in Iran, so calendar math happens in Tehran time
// no matter where the client runs.
func Now() time.Time {
	return time.Now().In(Location)
}

var gregorianDaysBeforeMonth = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// Jalali converts t (in Tehran time) to the solar hijri calendar.
func Jalali(t time.Time) (year, month, day int) {
	t = t.In(Location)
	gy, gm, gd := t.Year(), int(t.Month()), t.Day()

	if gy > 1600 {
		year = 979
		gy -= 1600
	} else {
		gy -= 621
	}
	gy2 := gy
	if gm > 2 {
		gy2++
	}
	days := 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 - 80 + gd + gregorianDaysBeforeMonth[gm-1]

	year += 33 * (days / 12053)
	days %= 12053
	year += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		year += (days - 1) / 365
		days = (days - 1) % 365
	}

	if days < 186 {
		return year, 1 + days/31, 1 + days%31
	}
	return year, 7 + (days-186)/30, 1 + (days-186)%30
}
