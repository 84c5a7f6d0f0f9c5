package ntp

import (
	"time"

	"golang.org/x/sys/unix"
)

// Clock supplies the current instant. Tests inject fixed clocks so the
// offset computation does not depend on real time.
type Clock interface {
	Now() Timestamp
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() Timestamp

func (f ClockFunc) Now() Timestamp { return f() }

// FixedClock always reports the same instant.
type FixedClock Timestamp

func (c FixedClock) Now() Timestamp { return Timestamp(c) }

// SystemClock reads CLOCK_REALTIME at microsecond resolution.
type SystemClock struct{}

func (SystemClock) Now() Timestamp {
	return GetSystemTime()
}

var clockGettime = unix.ClockGettime

// GetSystemTime falls back to the runtime clock if CLOCK_REALTIME cannot be
// read, so a request never carries a zero transmit timestamp.
func GetSystemTime() Timestamp {
	var unixTime unix.Timespec
	if err := clockGettime(unix.CLOCK_REALTIME, &unixTime); err != nil {
		return FromTime(time.Now())
	}
	return UnixToTimestamp(unixTime)
}

func UnixToTimestamp(ts unix.Timespec) Timestamp {
	return FromUnix(int64(ts.Sec), int64(ts.Nsec)/1e3)
}
