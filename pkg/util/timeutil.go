package util

import "time"

// NowUTC exposes time.Now for deterministic testing. The result carries no
// monotonic reading, so differences between two calls follow the wall clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ElapsedMillis returns end-start in whole milliseconds, clamped at zero when
// the wall clock stepped backwards in between.
func ElapsedMillis(start, end time.Time) int64 {
	if elapsed := end.Sub(start); elapsed > 0 {
		return elapsed.Milliseconds()
	}
	return 0
}
