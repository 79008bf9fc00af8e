package domain

import "time"

// Layouts accepted for user-supplied timestamps. The archive only
// holds top-of-hour snapshots, so minutes beyond the hour are
// effectively truncated by the request construction.
var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"200601021504",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseTime parses a user-supplied timestamp in any accepted layout.
// The returned error is the parse error for the last layout tried.
func ParseTime(value string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
