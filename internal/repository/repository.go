package repository

import "time"

// Clock supplies the wall-clock "now" for every repository, so lifecycle
// cutoffs (due dates, timestamps) are testable.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time { return time.Now() }
