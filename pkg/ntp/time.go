package ntp

import (
	"math"
	"time"
)

// InvalidTime is rendered in place of a timestamp that cannot be shown as a
// calendar date.
const InvalidTime = "INVALID_TIME"

const displayLayout = "2006-01-02 15:04:05.000000"

// Timestamp is NTP timestamp format: seconds since 1900 and a 32-bit binary
// fraction of a second.
type Timestamp struct {
	Seconds  uint32
	Fraction uint32
}

// FromUnix converts Unix seconds and microseconds. Seconds wrap at 2^32 (era 0 ends in 2036).
func FromUnix(sec int64, usec int64) Timestamp {
	return Timestamp{
		Seconds:  uint32(sec + EpochOffset),
		Fraction: MicrosecondsToFraction(usec),
	}
}

// FromTime truncates t to microseconds before converting it.
func FromTime(t time.Time) Timestamp {
	return FromUnix(t.Unix(), int64(t.Nanosecond()/1e3))
}

func TimestampFromUint64(encoded uint64) Timestamp {
	return Timestamp{Seconds: uint32(encoded >> 32), Fraction: uint32(encoded)}
}

func MicrosecondsToFraction(usec int64) uint32 {
	return uint32(math.Round(float64(usec) * FractionLength / 1e6))
}

func FractionToMicroseconds(fraction uint32) int64 {
	return int64(math.Round(float64(fraction) * 1e6 / FractionLength))
}

func (t Timestamp) Uint64() uint64 {
	return uint64(t.Seconds)<<32 | uint64(t.Fraction)
}

func (t Timestamp) IsZero() bool {
	return t.Seconds == 0 && t.Fraction == 0
}

// Float returns seconds since 1900 as a double. Close to 2^32 seconds the
// sub-microsecond digits are approximate; differences of two nearby
// timestamps cancel most of that error.
func (t Timestamp) Float() float64 {
	return float64(t.Seconds) + float64(t.Fraction)/FractionLength
}

func (t Timestamp) unix() (sec int64, usec int64) {
	sec = int64(t.Seconds) - EpochOffset
	usec = FractionToMicroseconds(t.Fraction)
	if usec >= 1e6 {
		sec++
		usec -= 1e6
	}
	return
}

// Time converts t to a time.Time with microsecond resolution.
func (t Timestamp) Time() time.Time {
	sec, usec := t.unix()
	return time.Unix(sec, usec*1e3)
}

// Format renders t as "YYYY-MM-DD HH:MM:SS.uuuuuu" in the local zone or UTC.
func (t Timestamp) Format(local bool) string {
	if local {
		return t.FormatIn(time.Local)
	}
	return t.FormatIn(time.UTC)
}

// FormatIn renders t in loc. It returns InvalidTime instead of failing.
func (t Timestamp) FormatIn(loc *time.Location) string {
	if loc == nil {
		return InvalidTime
	}
	tm := t.Time().In(loc)
	if year := tm.Year(); year < 0 || year > 9999 {
		return InvalidTime
	}
	return tm.Format(displayLayout)
}

func (t Timestamp) String() string {
	return t.Format(false)
}
