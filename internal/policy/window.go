package policy

import "time"

// WithinWindow reports whether now falls inside the [start, end] window,
// inclusive at both ends. An absent bound is unconstrained, so a window with
// neither bound is always active.
func WithinWindow(start, end *time.Time, now time.Time) bool {
	startOK := start == nil || !start.After(now)
	endOK := end == nil || !end.Before(now)
	return startOK && endOK
}
