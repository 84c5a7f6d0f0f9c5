// Package report renders packets and exchange results for people.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/AndrewLester/ntpclient/internal/ui"
	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"github.com/AndrewLester/ntpclient/pkg/query"
)

func zone(local bool) string {
	if local {
		return "Local Time"
	}
	return "GMT Time"
}

func Timestamp(w io.Writer, ts ntp.Timestamp, label string, local bool) {
	fmt.Fprintf(w, "%s: %s (%s)\n", label, ts.Format(local), zone(local))
}

// Packet prints every header field of p, which must be in host order.
func Packet(w io.Writer, p *ntp.Packet, label string, local bool) {
	fmt.Fprintln(w, ui.HeadingStyle(fmt.Sprintf("--- %s Packet ---", label)))
	fmt.Fprintf(w, "Leap Indicator: %d\n", p.Leap())
	fmt.Fprintf(w, "Version: %d\n", p.Version())
	fmt.Fprintf(w, "Mode: %d\n", p.Mode())
	fmt.Fprintf(w, "Stratum: %d\n", p.Stratum)
	fmt.Fprintf(w, "Poll: %d\n", p.Poll)
	fmt.Fprintf(w, "Precision: %d\n", p.Precision)
	fmt.Fprintf(w, "Reference ID: [0x%08x] %s\n", p.ReferenceID, p.RefID())
	fmt.Fprintf(w, "Root Delay: %f\n", p.RootDelay.Seconds())
	fmt.Fprintf(w, "Root Dispersion: %f\n", p.RootDispersion.Seconds())
	Timestamp(w, p.RefTime, "Reference Time", local)
	Timestamp(w, p.OrigTime, "Original Time (T1)", local)
	Timestamp(w, p.RecvTime, "Receive Time (T2)", local)
	Timestamp(w, p.XmitTime, "Transmit Time (T3)", local)
}

func Result(w io.Writer, server string, r *ntp.Result, local bool) {
	fmt.Fprintln(w, ui.HeadingStyle("=== NTP Time Synchronization Results ==="))
	fmt.Fprintf(w, "Server: %s\n", server)
	Timestamp(w, r.ServerTime, "Server Time", local)
	Timestamp(w, r.ClientTime, "Local Time", local)
	fmt.Fprintf(w, "Round Trip Delay: %f\n", r.Delay)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Time Offset: %f seconds\n", r.Offset)
	fmt.Fprintf(w, "Final Dispersion: %f\n", r.Dispersion)
	fmt.Fprintln(w)

	direction := ui.AheadStyle("AHEAD")
	if r.Offset > 0 {
		direction = ui.BehindStyle("BEHIND")
	}
	fmt.Fprintf(w, "Your clock is running %s by %.2fms\n", direction, math.Abs(r.Offset)*1000)
	fmt.Fprintf(w, "Your estimated time error will be +/- %.2fms\n", r.Dispersion*1000)
}

func BitFields(w io.Writer, p *ntp.Packet) {
	li, vn, mode := byte(p.Leap()), p.Version(), byte(p.Mode())
	fmt.Fprintf(w, "DEBUG: li_vn_mode byte = 0x%02X\n", p.LiVnMode)
	fmt.Fprintf(w, "  Leap Indicator = %d\n", li)
	fmt.Fprintf(w, "  Version = %d\n", vn)
	fmt.Fprintf(w, "  Mode = %d\n", mode)
	fmt.Fprintf(w, "  Binary breakdown: LI=%02b VN=%03b Mode=%03b\n", li, vn, mode)
}

func EpochDemo(w io.Writer, clock ntp.Clock) {
	now := clock.Now()
	unixSeconds := int64(now.Seconds) - ntp.EpochOffset

	fmt.Fprintln(w, ui.HeadingStyle("=== EPOCH CONVERSION EXAMPLE ==="))
	fmt.Fprintf(w, "Current Unix time: %d seconds since 1970\n", unixSeconds)
	fmt.Fprintf(w, "Same time in NTP:  %d seconds since 1900\n", now.Seconds)
	fmt.Fprintf(w, "Difference:        %d seconds (70 years)\n", ntp.EpochOffset)
	fmt.Fprintf(w, "NTP fraction:      %d (%d microseconds)\n", now.Fraction, ntp.FractionToMicroseconds(now.Fraction))
	fmt.Fprintf(w, "Human readable:    %s\n", now.Time().UTC().Format(time.UnixDate))
}

func Comparison(w io.Writer, c *query.Comparison) {
	fmt.Fprintln(w, ui.HeadingStyle("=== beevik/ntp Cross-Check ==="))
	fmt.Fprintf(w, "Stratum: %d\n", c.Stratum)
	fmt.Fprintf(w, "Reference ID: %s\n", c.ReferenceID)
	fmt.Fprintf(w, "Offset: %v (ours %s)\n", c.Offset, signed(c.OffsetDelta))
	fmt.Fprintf(w, "Round Trip: %v (ours %s)\n", c.RTT, signed(c.DelayDelta))
}

func signed(d time.Duration) string {
	if d < 0 {
		return d.String()
	}
	return "+" + d.String()
}

// Exchange prints a full query: both packets followed by the results.
func Exchange(w io.Writer, e *query.Exchange, local bool) {
	Packet(w, e.Request, "Request", local)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Received NTP response from %s!\n", e.Server)
	Packet(w, e.Response, "Response", local)
	fmt.Fprintln(w)
	Result(w, e.Server, e.Result, local)
}
