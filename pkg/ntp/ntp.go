package ntp

import (
	"errors"
	"math"
)

const (
	Port        = 123           // NTP port number
	Version     byte = 4        // NTP version number
	PacketSize  = 48            // header size, no extension fields
	EpochOffset = 2_208_988_800 // 1970 - 1900 in seconds

	ShortLength    float64 = 65536         // 2^16
	FractionLength float64 = 4_294_967_296 // 2^32
)

// Request defaults
const (
	RequestPoll      int8 = 6   // 64 s
	RequestPrecision int8 = -20 // ~1 us
)

type Leap byte

const (
	LeapNoWarning Leap = iota
	LeapAddSecond
	LeapDelSecond
	LeapNotInSync
)

type Mode byte

const (
	RESERVED Mode = iota
	SYMMETRIC_ACTIVE
	SYMMETRIC_PASSIVE
	CLIENT
	SERVER
	BROADCAST
	CONTROL
	RESERVED_PRIVATE_USE
)

// li_vn_mode layout: LL VVV MMM
const (
	leapShift    = 6
	leapMask     = 0b11
	versionShift = 3
	versionMask  = 0b111
	modeMask     = 0b111
)

var (
	ErrInvalidInput   = errors.New("ntp: missing required argument")
	ErrBufferTooSmall = errors.New("ntp: buffer too small")
	ErrByteOrder      = errors.New("ntp: packet is in the wrong byte order")
	ErrPacketSize     = errors.New("ntp: packet must be 48 bytes")
)

// ByteOrder records which order a packet's multi-byte fields are stored in.
type ByteOrder byte

const (
	HostOrder ByteOrder = iota
	WireOrder
)

func (o ByteOrder) String() string {
	if o == WireOrder {
		return "wire"
	}
	return "host"
}

// Short is NTP short format, signed Q16.16 seconds.
type Short uint32

// Seconds decodes s as signed Q16.16.
func (s Short) Seconds() float64 {
	return float64(int32(s)) / ShortLength
}

// ShortFromSeconds saturates at the Q16.16 limits, about ±32768 s.
func ShortFromSeconds(seconds float64) Short {
	fixed := seconds * ShortLength
	switch {
	case math.IsNaN(fixed):
		return 0
	case fixed >= math.MaxInt32:
		return Short(uint32(math.MaxInt32))
	case fixed <= math.MinInt32:
		return Short(uint32(1 << 31))
	}
	return Short(uint32(int32(fixed)))
}

type Packet struct {
	LiVnMode       byte      /* leap, version, mode */
	Stratum        uint8     /* stratum */
	Poll           int8      /* poll interval */
	Precision      int8      /* precision */
	RootDelay      Short     /* root delay */
	RootDispersion Short     /* root dispersion */
	ReferenceID    uint32    /* reference ID */
	RefTime        Timestamp /* reference time */
	OrigTime       Timestamp /* origin timestamp (T1) */
	RecvTime       Timestamp /* receive timestamp (T2) */
	XmitTime       Timestamp /* transmit timestamp (T3) */

	order ByteOrder
}

func PackLiVnMode(leap Leap, version byte, mode Mode) byte {
	return (byte(leap)&leapMask)<<leapShift |
		(version&versionMask)<<versionShift |
		byte(mode)&modeMask
}

func (p *Packet) Leap() Leap {
	return Leap(p.LiVnMode >> leapShift & leapMask)
}

func (p *Packet) Version() byte {
	return p.LiVnMode >> versionShift & versionMask
}

func (p *Packet) Mode() Mode {
	return Mode(p.LiVnMode & modeMask)
}

func (p *Packet) Order() ByteOrder {
	return p.order
}

// NewRequest builds a client request in host byte order. The transmit
// timestamp is read from clock; every other timestamp is zero.
func NewRequest(clock Clock) *Packet {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Packet{
		LiVnMode:  PackLiVnMode(LeapNotInSync, Version, CLIENT),
		Poll:      RequestPoll,
		Precision: RequestPrecision,
		XmitTime:  clock.Now(),
		order:     HostOrder,
	}
}

func BuildRequest() *Packet {
	return NewRequest(SystemClock{})
}
