package ntp

// Result of one client/server exchange. All values are in seconds.
type Result struct {
	Offset     float64   // positive when the local clock is behind the server
	Delay      float64   // round trip minus server residency; not clamped
	Dispersion float64   // estimated error bound
	ServerTime Timestamp // T3
	ClientTime Timestamp // T4
}

// Offsets is the four-timestamp exchange:
//
//	t1 client transmit, t2 server receive, t3 server transmit, t4 client receive
func Offsets(t1, t2, t3, t4 float64) (offset, delay float64) {
	delay = (t4 - t1) - (t3 - t2)
	offset = ((t2 - t1) + (t3 - t4)) / 2
	return
}

// Calculate derives offset, delay and dispersion from a host-order response
// and the local receive time. T1 is the origin timestamp the server echoed.
// Timestamp ordering is not checked; a negative delay is returned as is.
func Calculate(request, response *Packet, recv *Timestamp) (*Result, error) {
	if request == nil || response == nil || recv == nil {
		return nil, ErrInvalidInput
	}

	t1 := response.OrigTime.Float()
	t2 := response.RecvTime.Float()
	t3 := response.XmitTime.Float()
	t4 := recv.Float()

	offset, delay := Offsets(t1, t2, t3, t4)

	return &Result{
		Offset:     offset,
		Delay:      delay,
		Dispersion: response.RootDispersion.Seconds() + response.RootDelay.Seconds()/2 + delay/2,
		ServerTime: response.XmitTime,
		ClientTime: *recv,
	}, nil
}
