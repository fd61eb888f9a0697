package data

import "time"

// TimeLayout is the wire format for timestamps: ISO-8601 to the second, no
// timezone. Anything else is rejected rather than guessed at.
const TimeLayout = "2006-01-02T15:04:05"

// ParseTime parses a wire timestamp, returning a malformed-date error for
// any input that does not match TimeLayout exactly.
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, MalformedDate()
	}
	return t, nil
}

// FormatTime renders a timestamp in the wire format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
