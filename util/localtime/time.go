package localtime

import "time"

// Normalize clears the sub-millisecond part and moves the time to UTC.
// "2009-11-10T23:00:00.00101010Z" -> "2009-11-10T23:00:00.001Z",
func Normalize(t time.Time) time.Time {
	n := t.UTC()

	return time.Date(
		n.Year(),
		n.Month(),
		n.Day(),
		n.Hour(),
		n.Minute(),
		n.Second(),
		(n.Nanosecond()/1000000)*1000000,
		time.UTC,
	)
}

func RFC3339(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// Unix converts protocol timestamps, which are seconds since epoch, to
// time.Time.
func Unix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
