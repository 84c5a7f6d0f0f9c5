package query

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	DefaultServer  = "pool.ntp.org"
	DefaultTimeout = 5 * time.Second
	BurstInterval  = 2 * time.Second /* burst interval */
	MaxSamples     = 8               /* clock register stages */
	MTU            = 1300
)

var (
	ErrNoResponse  = errors.New("server did not respond")
	ErrShortPacket = errors.New("received incomplete NTP packet")
	ErrNoServer    = errors.New("no server given")
)

type Options struct {
	Server     string
	Port       int
	Timeout    time.Duration
	TTL        int           // outgoing IP TTL / hop limit, 0 keeps the system default
	Interval   time.Duration // pause between burst samples
	Clock      ntp.Clock
	Normalizer *ntp.Normalizer
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = ntp.Port
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Clock == nil {
		o.Clock = ntp.SystemClock{}
	}
	if o.Normalizer == nil {
		o.Normalizer = ntp.Native
	}
	return o
}

func (o Options) Address() string {
	port := o.Port
	if port == 0 {
		port = ntp.Port
	}
	return net.JoinHostPort(o.Server, strconv.Itoa(port))
}

// Exchange is one request/response pair. Both packets are in host order.
type Exchange struct {
	Server   string
	Addr     *net.UDPAddr
	Request  *ntp.Packet
	Response *ntp.Packet
	Received ntp.Timestamp // T4
	Result   *ntp.Result
}

// Query performs a single exchange with opts.Server.
func Query(ctx context.Context, opts Options) (*Exchange, error) {
	opts = opts.withDefaults()
	if opts.Server == "" {
		return nil, ErrNoServer
	}

	dialer := net.Dialer{Timeout: opts.Timeout}
	conn, err := dialer.DialContext(ctx, "udp", opts.Address())
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.Address(), err)
	}
	defer conn.Close()

	addr, _ := conn.RemoteAddr().(*net.UDPAddr)
	debug("Connecting to", opts.Server, "("+conn.RemoteAddr().String()+")")

	deadline := time.Now().Add(opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(time.Now())
	})
	defer stop()

	if opts.TTL > 0 {
		if err := setTTL(conn, addr, opts.TTL); err != nil {
			return nil, err
		}
	}

	n := opts.Normalizer
	request := ntp.NewRequest(opts.Clock)
	debug("Request li_vn_mode:", fmt.Sprintf("0x%02X", request.LiVnMode), "xmt:", request.XmitTime.Uint64())

	if err := n.ToWireOrder(request); err != nil {
		return nil, err
	}
	encoded, err := n.Marshal(request)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write(encoded); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	buf := make([]byte, MTU)
	size, err := conn.Read(buf)
	// T4 before anything else touches the datagram
	received := opts.Clock.Now()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, fmt.Errorf("%w within %v", ErrNoResponse, opts.Timeout)
		}
		return nil, fmt.Errorf("receive: %w", err)
	}
	if size < ntp.PacketSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortPacket, size)
	}

	response, err := n.Unmarshal(buf[:ntp.PacketSize])
	if err != nil {
		return nil, err
	}
	if err := n.ToHostOrder(request); err != nil {
		return nil, err
	}
	if err := n.ToHostOrder(response); err != nil {
		return nil, err
	}
	debug("T1:", response.OrigTime.Float(), "T2:", response.RecvTime.Float(),
		"T3:", response.XmitTime.Float(), "T4:", received.Float())

	if err := ntp.Validate(request, response); err != nil {
		return nil, err
	}

	result, err := ntp.Calculate(request, response, &received)
	if err != nil {
		return nil, err
	}

	return &Exchange{
		Server:   opts.Server,
		Addr:     addr,
		Request:  request,
		Response: response,
		Received: received,
		Result:   result,
	}, nil
}

func setTTL(conn net.Conn, addr *net.UDPAddr, ttl int) error {
	var err error
	if addr != nil && addr.IP.To4() == nil {
		err = ipv6.NewConn(conn).SetHopLimit(ttl)
	} else {
		err = ipv4.NewConn(conn).SetTTL(ttl)
	}
	if err != nil {
		return fmt.Errorf("set ttl: %w", err)
	}
	return nil
}

// Burst sends samples requests to one server and keeps the exchange with
// the smallest delay. onSample, if set, is called after every attempt.
func Burst(ctx context.Context, opts Options, samples int, onSample func(i int, exchange *Exchange, err error)) (*Exchange, error) {
	if samples < 1 {
		samples = 1
	}
	if samples > MaxSamples {
		samples = MaxSamples
	}

	var best *Exchange
	var lastErr error
	for i := 0; i < samples; i++ {
		if i > 0 && opts.Interval > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(opts.Interval):
			}
		}

		exchange, err := Query(ctx, opts)
		if onSample != nil {
			onSample(i, exchange, err)
		}
		if err != nil {
			// Exit early if the server is not usable at all
			if errors.Is(err, ntp.ErrUnsynchronized) || errors.Is(err, ntp.ErrKissOfDeath) || ctx.Err() != nil {
				return nil, err
			}
			info("sample", i+1, "failed:", err)
			lastErr = err
			continue
		}

		info("sample", i+1, "offset:", exchange.Result.Offset, "delay:", exchange.Result.Delay)
		if best == nil || exchange.Result.Delay < best.Result.Delay {
			best = exchange
		}
	}

	if best == nil {
		return nil, lastErr
	}
	return best, nil
}
