// Package streak turns contribution calendars into streak statistics.
//
// Everything here is a pure function of its arguments: no I/O, no clock reads
// outside the explicit Merge wrapper and no shared state. Callers may invoke
// any function concurrently.
package streak

import "errors"

// ErrEmptyInput is returned by Analyze when the activity log has no dates.
var ErrEmptyInput = errors.New("no contributions found")
