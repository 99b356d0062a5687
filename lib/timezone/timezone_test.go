package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJalali(t *testing.T) {
	cases := []struct {
		now   time.Time
		year  int
		month int
		day   int
	}{
		{now: time.Date(2024, time.March, 20, 12, 0, 0, 0, Location), year: 1403, month: 1, day: 1},
		{now: time.Date(2024, time.March, 19, 12, 0, 0, 0, Location), year: 1402, month: 12, day: 29},
		{now: time.Date(2024, time.May, 1, 12, 0, 0, 0, Location), year: 1403, month: 2, day: 12},
		{now: time.Date(2024, time.September, 22, 12, 0, 0, 0, Location), year: 1403, month: 7, day: 1},
		{now: time.Date(2024, time.December, 31, 12, 0, 0, 0, Location), year: 1403, month: 10, day: 11},
		{now: time.Date(2025, time.March, 21, 12, 0, 0, 0, Location), year: 1404, month: 1, day: 1},
		// 21:00 UTC is already the next day in Tehran
		{now: time.Date(2024, time.March, 19, 21, 0, 0, 0, time.UTC), year: 1403, month: 1, day: 1},
	}

	for _, test := range cases {
		year, month, day := Jalali(test.now)
		require.Equal(t, []int{test.year, test.month, test.day}, []int{year, month, day}, test.now.String())
	}
}
