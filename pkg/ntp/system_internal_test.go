package ntp

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestGetSystemTimeFallback(t *testing.T) {
	saved := clockGettime
	t.Cleanup(func() { clockGettime = saved })
	clockGettime = func(clockid int32, ts *unix.Timespec) error {
		return errors.New("clock unavailable")
	}

	now := GetSystemTime()
	assert.False(t, now.IsZero())
	assert.WithinDuration(t, time.Now(), now.Time(), time.Second)
	assert.False(t, NewRequest(SystemClock{}).XmitTime.IsZero())
}
