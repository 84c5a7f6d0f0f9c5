package query

import (
	"fmt"
	"math"
	"time"

	"github.com/AndrewLester/ntpclient/pkg/ntp"
	beevik "github.com/beevik/ntp"
)

// Comparison holds beevik/ntp's view of the same server next to ours.
type Comparison struct {
	Offset      time.Duration
	RTT         time.Duration
	Stratum     uint8
	ReferenceID string

	OffsetDelta time.Duration // our offset minus beevik/ntp's
	DelayDelta  time.Duration // our delay minus beevik/ntp's RTT
}

func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// CrossCheck queries opts.Server once more with github.com/beevik/ntp and
// compares its offset and round trip with result.
func CrossCheck(opts Options, result *ntp.Result) (*Comparison, error) {
	opts = opts.withDefaults()
	resp, err := beevik.QueryWithOptions(opts.Address(), beevik.QueryOptions{
		Timeout: opts.Timeout,
		TTL:     opts.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("beevik/ntp query: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("beevik/ntp validate: %w", err)
	}

	comparison := &Comparison{
		Offset:      resp.ClockOffset,
		RTT:         resp.RTT,
		Stratum:     resp.Stratum,
		ReferenceID: ntp.DecodeReferenceID(resp.Stratum, resp.ReferenceID).String(),
	}
	if result != nil {
		comparison.OffsetDelta = Seconds(result.Offset) - resp.ClockOffset
		comparison.DelayDelta = Seconds(result.Delay) - resp.RTT
	}
	debug("beevik/ntp offset:", resp.ClockOffset, "rtt:", resp.RTT)
	return comparison, nil
}
