package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
	"golang.org/x/time/rate"

	"eriantys/internal/heartbeat"
	"eriantys/internal/protocol"
)

var errConnClosed = errors.New("connection closed")

// Conn is one client connection: its transport, liveness monitor, inbound rate limiter and
// the nickname and match bound to it.
type Conn struct {
	ID      string
	t       Transport
	codec   *protocol.Codec
	log     runtime.Logger
	hb      *heartbeat.Monitor
	limiter *rate.Limiter

	mu       sync.Mutex
	nickname string
	ctrl     *Controller

	dropOnce  sync.Once
	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(t Transport, codec *protocol.Codec, log runtime.Logger, limiter *rate.Limiter) *Conn {
	id := uuid.NewString()
	return &Conn{
		ID:      id,
		t:       t,
		codec:   codec,
		log:     log.WithField("conn", id),
		limiter: limiter,
		closed:  make(chan struct{}),
	}
}

// Send writes one frame.
func (c *Conn) Send(msg protocol.Message) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	if err := c.t.WriteLine(c.codec.Encode(msg)); err != nil {
		c.log.Debug("Send: %s failed: %v", msg.Command, err)
		return err
	}
	return nil
}

func (c *Conn) Nickname() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nickname
}

func (c *Conn) setNickname(n string) {
	c.mu.Lock()
	c.nickname = n
	c.mu.Unlock()
}

func (c *Conn) controller() *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl
}

func (c *Conn) setController(ct *Controller) {
	c.mu.Lock()
	c.ctrl = ct
	c.mu.Unlock()
}

// detach clears the match binding if it still points at ct.
func (c *Conn) detach(ct *Controller) {
	c.mu.Lock()
	if c.ctrl == ct {
		c.ctrl = nil
	}
	c.mu.Unlock()
}

// Close tears the connection down. The heartbeat goroutines are signalled here and
// joined by the read loop.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if c.hb != nil {
			c.hb.Stop()
		}
		_ = c.t.Close()
	})
}

// Closed is closed once the connection is torn down.
func (c *Conn) Closed() <-chan struct{} {
	return c.closed
}
