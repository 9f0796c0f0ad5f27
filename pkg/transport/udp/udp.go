package udp

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodelight/pkg/errors"
)

const (
	// DefaultAddress is the endpoint the visualizer listens on.
	DefaultAddress = "127.0.0.1:6005"

	// MaxDatagramSize is the largest payload read from one datagram.
	MaxDatagramSize = 64 * 1024

	// Consecutive read errors are spaced out by a doubling pause between
	// these bounds. A successful read resets it.
	minReadBackoff = 5 * time.Millisecond
	maxReadBackoff = time.Second
)

// Sink consumes raw datagram payloads. The slice is owned by the sink.
type Sink interface {
	Send(payload []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(payload []byte) error

// Send calls f(payload).
func (f SinkFunc) Send(payload []byte) error { return f(payload) }

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the logger for per-datagram warnings.
func WithLogger(l *log.Logger) Option {
	return func(ln *Listener) { ln.logger = l }
}

// WithErrorHandler registers fn for every non-fatal error: failed reads
// (TRANSPORT_RECEIVE) and payloads the sink rejected.
func WithErrorHandler(fn func(error)) Option {
	return func(ln *Listener) { ln.onError = fn }
}

// Listener is a bound UDP endpoint.
type Listener struct {
	conn    net.PacketConn
	logger  *log.Logger
	onError func(error)
}

// Listen binds addr. An empty addr means DefaultAddress.
func Listen(ctx context.Context, addr string, opts ...Option) (*Listener, error) {
	if addr == "" {
		addr = DefaultAddress
	}
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransportBind, err, "listen on %s", addr)
	}
	ln := &Listener{conn: conn, logger: log.Default()}
	for _, opt := range opts {
		opt(ln)
	}
	return ln, nil
}

// Addr returns the bound local address.
func (l *Listener) Addr() net.Addr { return l.conn.LocalAddr() }

// Close releases the socket. Serve returns once the socket is closed.
func (l *Listener) Close() error { return l.conn.Close() }

// Serve reads datagrams and passes each payload to sink until ctx is
// cancelled or the listener is closed, then returns nil. Read errors and
// sink errors are logged and do not stop the loop.
func (l *Listener) Serve(ctx context.Context, sink Sink) error {
	stop := context.AfterFunc(ctx, func() { l.conn.Close() })
	defer stop()

	buf := make([]byte, MaxDatagramSize)
	var backoff time.Duration
	for {
		n, from, err := l.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				return nil
			}
			l.report(errors.Wrap(errors.ErrCodeTransportReceive, err, "read datagram"))
			backoff = min(max(2*backoff, minReadBackoff), maxReadBackoff)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		payload := make([]byte, n)
		copy(payload, buf[:n])
		if err := sink.Send(payload); err != nil {
			l.logger.Warn("dropped datagram", "from", from, "bytes", n, "err", errors.UserMessage(err))
			if l.onError != nil {
				l.onError(err)
			}
		}
	}
}

func (l *Listener) report(err error) {
	l.logger.Warn("receive failed", "err", err)
	if l.onError != nil {
		l.onError(err)
	}
}

// Send writes node as a single datagram to addr. An empty addr means
// DefaultAddress.
func Send(ctx context.Context, addr, node string) error {
	if err := errors.ValidateNodeID(node); err != nil {
		return err
	}
	if addr == "" {
		addr = DefaultAddress
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTransportBind, err, "dial %s", addr)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if _, err := conn.Write([]byte(node)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "send to %s", addr)
	}
	return nil
}
