package events

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"unicode"

	"github.com/matzehuels/nodelight/pkg/errors"
)

// DefaultCapacity is used when NewChannel is given a non-positive capacity.
const DefaultCapacity = 64

// ErrClosed is returned by Receive once the channel is closed and drained,
// and by Send after Close.
var ErrClosed = stderrors.New("event channel closed")

// Option configures a Channel.
type Option func(*Channel)

// WithDropHandler registers fn to be called with every identifier evicted
// on overflow. fn runs on the sender's goroutine and must not call back
// into the channel.
func WithDropHandler(fn func(id string)) Option {
	return func(c *Channel) { c.onDrop = fn }
}

// Channel is a bounded drop-oldest FIFO of node identifiers.
type Channel struct {
	mu      sync.Mutex
	buf     []string
	head    int
	size    int
	dropped uint64
	closed  bool

	ready     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	onDrop    func(string)
}

// NewChannel creates a channel holding at most capacity identifiers.
func NewChannel(capacity int, opts ...Option) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Channel{
		buf:   make([]string, capacity),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Decode trims a raw datagram payload and validates the identifier it
// carries. Failures are DECODE errors.
func Decode(payload []byte) (string, error) {
	id := strings.TrimFunc(string(payload), func(r rune) bool {
		return r == 0 || unicode.IsSpace(r)
	})
	if err := errors.ValidateNodeID(id); err != nil {
		return "", err
	}
	return id, nil
}

// Send decodes payload and enqueues the identifier. It never blocks.
// Malformed payloads are rejected with a DECODE error and leave the queue
// untouched.
func (c *Channel) Send(payload []byte) error {
	id, err := Decode(payload)
	if err != nil {
		return err
	}
	return c.Push(id)
}

// Push enqueues an already decoded identifier, evicting the oldest entry
// when the queue is full.
func (c *Channel) Push(id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	var evicted string
	overflow := c.size == len(c.buf)
	if overflow {
		evicted = c.buf[c.head]
		c.head = (c.head + 1) % len(c.buf)
		c.size--
		c.dropped++
	}
	c.buf[(c.head+c.size)%len(c.buf)] = id
	c.size++
	c.mu.Unlock()

	if overflow && c.onDrop != nil {
		c.onDrop(evicted)
	}
	select {
	case c.ready <- struct{}{}:
	default:
	}
	return nil
}

// Receive blocks until an identifier is available and returns it. After
// Close, queued identifiers are still delivered before ErrClosed.
func (c *Channel) Receive(ctx context.Context) (string, error) {
	for {
		c.mu.Lock()
		if c.size > 0 {
			id := c.buf[c.head]
			c.buf[c.head] = ""
			c.head = (c.head + 1) % len(c.buf)
			c.size--
			c.mu.Unlock()
			return id, nil
		}
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return "", ErrClosed
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-c.ready:
		case <-c.done:
		}
	}
}

// Len returns the number of queued identifiers.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Cap returns the queue capacity.
func (c *Channel) Cap() int { return len(c.buf) }

// Dropped returns how many identifiers have been evicted on overflow.
func (c *Channel) Dropped() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Close stops the channel from accepting new identifiers and wakes any
// blocked receiver. It is safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
}
