package ntp

import (
	"encoding/binary"
	"net/netip"
)

type RefKind byte

const (
	RefNone  RefKind = iota // reference ID unset
	RefASCII                // stratum 0-1: four-character clock code
	RefIPv4                 // stratum 2+: upstream server address
)

// Capacity a caller-supplied buffer needs for each form.
const (
	MaxIPv4Len  = len("255.255.255.255")
	ASCIILen    = 4
	refNoneText = "NONE"
)

// ReferenceID is the reference identifier interpreted for its stratum.
type ReferenceID struct {
	Kind RefKind
	Raw  uint32
}

func DecodeReferenceID(stratum uint8, raw uint32) ReferenceID {
	switch {
	case raw == 0:
		return ReferenceID{Kind: RefNone}
	case stratum >= 2:
		return ReferenceID{Kind: RefIPv4, Raw: raw}
	default:
		return ReferenceID{Kind: RefASCII, Raw: raw}
	}
}

// RefID interprets the packet's reference identifier for its stratum.
// p must be in host order.
func (p *Packet) RefID() ReferenceID {
	return DecodeReferenceID(p.Stratum, p.ReferenceID)
}

// bytes returns raw most significant byte first, whatever the host order.
func (r ReferenceID) bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], r.Raw)
	return b
}

// Addr returns the upstream address of a stratum 2+ reference.
func (r ReferenceID) Addr() (netip.Addr, bool) {
	if r.Kind != RefIPv4 {
		return netip.Addr{}, false
	}
	return netip.AddrFrom4(r.bytes()), true
}

// Code returns the clock code of a stratum 0-1 reference. Trailing NUL
// padding is dropped and non-printable bytes show as '.'.
func (r ReferenceID) Code() string {
	if r.Kind != RefASCII {
		return ""
	}
	b := r.bytes()
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	code := b[:n]
	for i, c := range code {
		if c < 0x20 || c > 0x7e {
			code[i] = '.'
		}
	}
	return string(code)
}

func (r ReferenceID) String() string {
	switch r.Kind {
	case RefIPv4:
		addr, _ := r.Addr()
		return addr.String()
	case RefASCII:
		return r.Code()
	default:
		return refNoneText
	}
}

// Capacity is the buffer size Put requires for this form.
func (r ReferenceID) Capacity() int {
	if r.Kind == RefIPv4 {
		return MaxIPv4Len
	}
	return ASCIILen
}

// Put writes the text form into dst and returns the number of bytes
// written. If dst is smaller than Capacity nothing is written.
func (r ReferenceID) Put(dst []byte) (int, error) {
	if len(dst) < r.Capacity() {
		return 0, ErrBufferTooSmall
	}
	return copy(dst, r.String()), nil
}
