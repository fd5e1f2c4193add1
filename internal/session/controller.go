package session

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"

	"eriantys/internal/app"
	"eriantys/internal/domain"
	"eriantys/internal/protocol"
)

const inboxSize = 64

type commandKind int

const (
	cmdJoin commandKind = iota
	cmdMessage
	cmdLeave
)

// command is one entry of a controller inbox.
type command struct {
	kind   commandKind
	conn   *Conn
	msg    protocol.Message
	reason string
}

// Controller owns one match. Every mutation happens on the Run goroutine, in inbox order.
type Controller struct {
	ID      string
	Players int
	Expert  bool

	svc   *app.Service
	match *domain.Match
	log   runtime.Logger

	inbox   chan command
	conns   map[string]*Conn
	order   []string
	pending []string

	seats int // guarded by the lobby mutex

	done    chan struct{}
	endOnce sync.Once
	onEnd   func(*Controller)
}

func newController(id string, m *domain.Match, svc *app.Service, log runtime.Logger, onEnd func(*Controller)) *Controller {
	return &Controller{
		ID:      id,
		Players: m.Variant.Players,
		Expert:  m.Expert,
		svc:     svc,
		match:   m,
		log:     log.WithField("match", id),
		inbox:   make(chan command, inboxSize),
		conns:   map[string]*Conn{},
		done:    make(chan struct{}),
		onEnd:   onEnd,
	}
}

// Submit queues a command. It reports false once the controller has ended.
func (c *Controller) Submit(cmd command) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.inbox <- cmd:
		return true
	case <-c.done:
		return false
	}
}

// Done is closed when the match is over or discarded.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run consumes the inbox until the match ends or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.log.Info("Controller: match started for %d players (expert=%t)", c.Players, c.Expert)
	for {
		select {
		case <-ctx.Done():
			c.end()
			return
		case <-c.done:
			return
		case cmd := <-c.inbox:
			c.handle(cmd)
		}
	}
}

func (c *Controller) handle(cmd command) {
	switch cmd.kind {
	case cmdJoin:
		c.join(cmd.conn)
	case cmdLeave:
		c.leave(cmd.conn, cmd.reason)
	case cmdMessage:
		if c.conns[cmd.conn.Nickname()] != cmd.conn {
			return
		}
		if cmd.msg.Command == protocol.AddPlayer {
			c.addPlayer(cmd.conn, cmd.msg)
			return
		}
		c.move(cmd.conn, cmd.msg)
	}
}

func (c *Controller) join(conn *Conn) {
	nick := conn.Nickname()
	c.conns[nick] = conn
	c.order = append(c.order, nick)
	c.pending = append(c.pending, nick)
	_ = conn.Send(protocol.New(protocol.JoinSuccessful).
		Quoted("matchId", c.ID).
		Int("players", c.Players).
		Bare("expert", strconv.FormatBool(c.Expert)))
	c.log.Info("Controller: %s joined (%d/%d)", nick, len(c.order), c.Players)
	if len(c.pending) == 1 {
		c.prompt()
	}
}

// prompt asks the first joined player without an identity to choose one.
func (c *Controller) prompt() {
	if len(c.pending) == 0 {
		return
	}
	c.publish([]app.Event{c.svc.Prompt(c.match, c.pending[0])})
}

func (c *Controller) addPlayer(conn *Conn, msg protocol.Message) {
	nick := conn.Nickname()
	if len(c.pending) == 0 || c.pending[0] != nick {
		c.log.Error("Controller: addPlayer from %s out of order", nick)
		return
	}
	wizard, err := msg.String("wizard")
	if err != nil {
		c.abort(conn, app.ReasonProtocol)
		return
	}
	tower, err := msg.String("tower")
	if err != nil {
		c.abort(conn, app.ReasonProtocol)
		return
	}

	events, err := c.svc.AddPlayer(c.match, nick, wizard, tower)
	switch {
	case errors.Is(err, domain.ErrOutOfOrder):
		c.log.Error("Controller: addPlayer for %s: %v", nick, err)
		return
	case err != nil && len(events) == 0:
		_ = conn.Send(app.IllegalMoveMessage(err.Error(), protocol.AddPlayer))
		c.prompt()
		return
	case err != nil:
		c.log.Error("Controller: preparation failed: %v", err)
		c.publish(events)
		c.abort(nil, app.ReasonProtocol)
		return
	}

	c.pending = c.pending[1:]
	c.publish(events)
	c.prompt()
}

func (c *Controller) move(conn *Conn, msg protocol.Message) {
	nick := conn.Nickname()
	mv, err := app.ParseMove(msg, nick)
	switch {
	case errors.Is(err, domain.ErrIllegalMove):
		_ = conn.Send(app.IllegalMoveMessage(err.Error(), msg.Command))
		return
	case err != nil:
		c.log.Warn("Controller: malformed %s from %s: %v", msg.Command, nick, err)
		c.abort(conn, app.ReasonProtocol)
		return
	}

	events, err := c.svc.ApplyMove(c.match, mv, string(msg.Command))
	if err != nil {
		if errors.Is(err, domain.ErrOutOfOrder) {
			c.log.Error("Controller: %s from %s: %v", msg.Command, nick, err)
			return
		}
		_ = conn.Send(app.IllegalMoveMessage(err.Error(), msg.Command))
		return
	}
	c.publish(events)
}

// publish frames and delivers events. Events that finish the match end the controller
// before anything is delivered.
func (c *Controller) publish(events []app.Event) {
	for _, ev := range events {
		if ev.Kind == app.EventGameEnded || ev.Kind == app.EventMatchAborted {
			c.end()
		}
	}
	for _, ev := range events {
		if p, ok := ev.Payload.(app.GameEndedPayload); ok {
			c.log.Info("Controller: game over, winner=%s draw=%t", p.Winner, p.Draw)
		}
		frame, ok := app.Frame(ev)
		if !ok {
			continue
		}
		c.deliver(frame, ev.Recipients)
	}
}

func (c *Controller) deliver(frame protocol.Message, recipients []string) {
	if len(recipients) == 0 {
		for _, nick := range c.order {
			if conn, ok := c.conns[nick]; ok {
				_ = conn.Send(frame)
			}
		}
		return
	}
	for _, nick := range recipients {
		if conn, ok := c.conns[nick]; ok {
			_ = conn.Send(frame)
		}
	}
}

func (c *Controller) leave(conn *Conn, reason string) {
	nick := conn.Nickname()
	if c.conns[nick] != conn {
		return
	}
	c.log.Info("Controller: %s left (%s)", nick, reason)
	delete(c.conns, nick)
	c.publish(c.svc.Abort(reason, nick))
}

// abort discards the match because of conn and closes conn. A nil conn aborts without a
// culprit.
func (c *Controller) abort(conn *Conn, reason string) {
	nick := ""
	if conn != nil {
		nick = conn.Nickname()
		delete(c.conns, nick)
	}
	c.log.Warn("Controller: match aborted (%s) by %q", reason, nick)
	c.publish(c.svc.Abort(reason, nick))
	if conn != nil {
		conn.Close()
	}
}

func (c *Controller) end() {
	c.endOnce.Do(func() {
		close(c.done)
		for _, conn := range c.conns {
			conn.detach(c)
		}
		if c.onEnd != nil {
			c.onEnd(c)
		}
	})
}
