package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// EpochSeconds returns t as fractional seconds since the Unix epoch.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FromEpochSeconds is the inverse of EpochSeconds, in UTC.
func FromEpochSeconds(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second))).UTC()
}
