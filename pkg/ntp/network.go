package ntp

import (
	"encoding/binary"
)

// Normalizer converts packets between host and network (big-endian) byte
// order. host describes how the machine lays out a 32-bit word in memory;
// Native uses the running machine's layout.
type Normalizer struct {
	host binary.ByteOrder
}

var Native = NewNormalizer(binary.NativeEndian)

func NewNormalizer(host binary.ByteOrder) *Normalizer {
	if host == nil {
		host = binary.NativeEndian
	}
	return &Normalizer{host: host}
}

// swap is htonl/ntohl: store v in host layout, read it back big-endian.
// Identity on a big-endian host, a byte reversal otherwise.
func (n *Normalizer) swap(v uint32) uint32 {
	var b [4]byte
	n.host.PutUint32(b[:], v)
	return binary.BigEndian.Uint32(b[:])
}

func (n *Normalizer) swapTimestamp(t *Timestamp) {
	t.Seconds = n.swap(t.Seconds)
	t.Fraction = n.swap(t.Fraction)
}

func (n *Normalizer) convert(p *Packet) {
	p.RootDelay = Short(n.swap(uint32(p.RootDelay)))
	p.RootDispersion = Short(n.swap(uint32(p.RootDispersion)))
	p.ReferenceID = n.swap(p.ReferenceID)
	n.swapTimestamp(&p.RefTime)
	n.swapTimestamp(&p.OrigTime)
	n.swapTimestamp(&p.RecvTime)
	n.swapTimestamp(&p.XmitTime)
}

// ToWireOrder converts p in place. A packet already in wire order is left
// untouched.
func (n *Normalizer) ToWireOrder(p *Packet) error {
	if p == nil {
		return ErrInvalidInput
	}
	if p.order == WireOrder {
		return nil
	}
	n.convert(p)
	p.order = WireOrder
	return nil
}

// ToHostOrder converts p in place. A packet already in host order is left
// untouched.
func (n *Normalizer) ToHostOrder(p *Packet) error {
	if p == nil {
		return ErrInvalidInput
	}
	if p.order == HostOrder {
		return nil
	}
	n.convert(p)
	p.order = HostOrder
	return nil
}

// Marshal copies the memory image of a wire-order packet into a datagram.
func (n *Normalizer) Marshal(p *Packet) ([]byte, error) {
	if p == nil {
		return nil, ErrInvalidInput
	}
	if p.order != WireOrder {
		return nil, ErrByteOrder
	}

	b := make([]byte, PacketSize)
	b[0] = p.LiVnMode
	b[1] = p.Stratum
	b[2] = byte(p.Poll)
	b[3] = byte(p.Precision)

	n.host.PutUint32(b[4:8], uint32(p.RootDelay))
	n.host.PutUint32(b[8:12], uint32(p.RootDispersion))
	n.host.PutUint32(b[12:16], p.ReferenceID)

	n.putTimestamp(b[16:24], p.RefTime)
	n.putTimestamp(b[24:32], p.OrigTime)
	n.putTimestamp(b[32:40], p.RecvTime)
	n.putTimestamp(b[40:48], p.XmitTime)
	return b, nil
}

// Unmarshal reads a 48-byte datagram. The returned packet is in wire order;
// call ToHostOrder before reading its fields.
func (n *Normalizer) Unmarshal(b []byte) (*Packet, error) {
	if len(b) != PacketSize {
		return nil, ErrPacketSize
	}

	return &Packet{
		LiVnMode:       b[0],
		Stratum:        b[1],
		Poll:           int8(b[2]),
		Precision:      int8(b[3]),
		RootDelay:      Short(n.host.Uint32(b[4:8])),
		RootDispersion: Short(n.host.Uint32(b[8:12])),
		ReferenceID:    n.host.Uint32(b[12:16]),
		RefTime:        n.timestamp(b[16:24]),
		OrigTime:       n.timestamp(b[24:32]),
		RecvTime:       n.timestamp(b[32:40]),
		XmitTime:       n.timestamp(b[40:48]),
		order:          WireOrder,
	}, nil
}

func (n *Normalizer) putTimestamp(b []byte, t Timestamp) {
	n.host.PutUint32(b[0:4], t.Seconds)
	n.host.PutUint32(b[4:8], t.Fraction)
}

func (n *Normalizer) timestamp(b []byte) Timestamp {
	return Timestamp{Seconds: n.host.Uint32(b[0:4]), Fraction: n.host.Uint32(b[4:8])}
}

// Encode converts a host-order packet straight to wire bytes without
// modifying it.
func (n *Normalizer) Encode(p *Packet) ([]byte, error) {
	if p == nil {
		return nil, ErrInvalidInput
	}
	wire := *p
	if err := n.ToWireOrder(&wire); err != nil {
		return nil, err
	}
	return n.Marshal(&wire)
}

// Decode parses wire bytes into a host-order packet.
func (n *Normalizer) Decode(b []byte) (*Packet, error) {
	p, err := n.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	if err := n.ToHostOrder(p); err != nil {
		return nil, err
	}
	return p, nil
}
