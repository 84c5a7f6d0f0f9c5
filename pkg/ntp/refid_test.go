package ntp_test

import (
	"net/netip"
	"testing"

	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReferenceID(t *testing.T) {
	tests := []struct {
		name    string
		stratum uint8
		raw     uint32
		kind    ntp.RefKind
		want    string
	}{
		{"secondary", 2, 0xCF424F67, ntp.RefIPv4, "207.66.79.103"},
		{"secondary high stratum", 15, 0x179B2826, ntp.RefIPv4, "23.155.40.38"},
		{"primary", 1, 0x4E495354, ntp.RefASCII, "NIST"},
		{"primary google", 1, 0x474F4F47, ntp.RefASCII, "GOOG"},
		{"padded code", 1, 0x47505300, ntp.RefASCII, "GPS"},
		{"unprintable byte", 1, 0x4E490153, ntp.RefASCII, "NI.S"},
		{"kiss code", 0, 0x52415445, ntp.RefASCII, "RATE"},
		{"none primary", 1, 0, ntp.RefNone, "NONE"},
		{"none secondary", 3, 0, ntp.RefNone, "NONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ntp.DecodeReferenceID(tt.stratum, tt.raw)
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, tt.want, ref.String())
			// no hidden state
			assert.Equal(t, ref, ntp.DecodeReferenceID(tt.stratum, tt.raw))
			assert.Equal(t, tt.want, ntp.DecodeReferenceID(tt.stratum, tt.raw).String())
		})
	}
}

func TestReferenceIDAddr(t *testing.T) {
	addr, ok := ntp.DecodeReferenceID(2, 0xCF424F67).Addr()
	require.True(t, ok)
	assert.Equal(t, netip.MustParseAddr("207.66.79.103"), addr)

	_, ok = ntp.DecodeReferenceID(1, 0x4E495354).Addr()
	assert.False(t, ok)
	assert.Empty(t, ntp.DecodeReferenceID(2, 0xCF424F67).Code())
}

func TestPacketRefID(t *testing.T) {
	p := &ntp.Packet{Stratum: 1, ReferenceID: 0x4E495354}
	assert.Equal(t, "NIST", p.RefID().String())
}

func TestReferenceIDPut(t *testing.T) {
	tests := []struct {
		name    string
		ref     ntp.ReferenceID
		size    int
		wantErr bool
		want    string
	}{
		{"ipv4 fits", ntp.DecodeReferenceID(2, 0xCF424F67), 15, false, "207.66.79.103"},
		{"ipv4 needs room for the longest address", ntp.DecodeReferenceID(2, 0x01010101), 14, true, ""},
		{"longest ipv4", ntp.DecodeReferenceID(2, 0xFFFFFFFF), 15, false, "255.255.255.255"},
		{"ascii fits", ntp.DecodeReferenceID(1, 0x4E495354), 4, false, "NIST"},
		{"ascii too small", ntp.DecodeReferenceID(1, 0x4E495354), 3, true, ""},
		{"none fits", ntp.DecodeReferenceID(1, 0), 4, false, "NONE"},
		{"none too small", ntp.DecodeReferenceID(2, 0), 3, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			n, err := tt.ref.Put(buf)
			if tt.wantErr {
				assert.ErrorIs(t, err, ntp.ErrBufferTooSmall)
				assert.Zero(t, n)
				assert.Equal(t, make([]byte, tt.size), buf)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(buf[:n]))
		})
	}
}
