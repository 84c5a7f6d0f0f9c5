package ntp

import (
	"errors"
	"fmt"
)

var (
	ErrUnsynchronized = errors.New("server is not synchronized")
	ErrKissOfDeath    = errors.New("server sent kiss-o'-death")
	ErrOriginMismatch = errors.New("origin timestamp does not match request")
	ErrServerMode     = errors.New("response is not in server mode")
	ErrVersion        = errors.New("unsupported NTP version")
	ErrZeroTransmit   = errors.New("server transmit timestamp is zero")
)

// KissError carries the four-letter code of a stratum 0 response, e.g. RATE.
type KissError struct {
	Code string
}

func (e *KissError) Error() string {
	return fmt.Sprintf("%v: %s", ErrKissOfDeath, e.Code)
}

func (e *KissError) Unwrap() error {
	return ErrKissOfDeath
}

// Validate rejects responses a client must not use. Both packets must be in
// host order.
func Validate(request, response *Packet) error {
	if request == nil || response == nil {
		return ErrInvalidInput
	}
	if response.Mode() != SERVER {
		return fmt.Errorf("%w: mode %d", ErrServerMode, response.Mode())
	}
	if v := response.Version(); v < 1 || v > Version {
		return fmt.Errorf("%w: %d", ErrVersion, v)
	}
	if response.Stratum == 0 {
		return &KissError{Code: ReferenceID{Kind: RefASCII, Raw: response.ReferenceID}.Code()}
	}
	if response.Leap() == LeapNotInSync {
		return ErrUnsynchronized
	}
	if response.XmitTime.IsZero() {
		return ErrZeroTransmit
	}
	if response.OrigTime != request.XmitTime {
		return ErrOriginMismatch
	}
	return nil
}
