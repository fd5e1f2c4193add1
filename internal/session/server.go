package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/heroiclabs/nakama-common/runtime"
	"golang.org/x/time/rate"

	"eriantys/internal/app"
	"eriantys/internal/heartbeat"
	"eriantys/internal/protocol"
)

// Options tunes per-connection behaviour.
type Options struct {
	Heartbeat    heartbeat.Config
	MessageRate  rate.Limit
	MessageBurst int
}

// Server accepts connections on any transport and routes their frames to the lobby or
// to the controller of their match.
type Server struct {
	codec *protocol.Codec
	log   runtime.Logger
	opts  Options
	lobby *Lobby
	wg    sync.WaitGroup
}

func NewServer(codec *protocol.Codec, svc *app.Service, log runtime.Logger, opts Options) *Server {
	if opts.MessageRate <= 0 {
		opts.MessageRate = rate.Inf
	}
	if opts.MessageBurst <= 0 {
		opts.MessageBurst = 1
	}
	return &Server{
		codec: codec,
		log:   log,
		opts:  opts,
		lobby: NewLobby(svc, log),
	}
}

// Lobby exposes the server's lobby.
func (s *Server) Lobby() *Lobby {
	return s.lobby
}

// Serve accepts newline-framed connections until ctx is cancelled, then waits for them
// to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	s.log.Info("Serve: listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Handle(ctx, NewLineTransport(conn))
		}()
	}
}

// WebSocketHandler upgrades requests and serves each socket like a line connection.
func (s *Server) WebSocketHandler(ctx context.Context) http.Handler {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Warn("WebSocketHandler: upgrade from %s: %v", r.RemoteAddr, err)
			return
		}
		s.wg.Add(1)
		defer s.wg.Done()
		s.Handle(ctx, NewWSTransport(ws))
	})
}

// Handle runs one connection to completion.
func (s *Server) Handle(ctx context.Context, t Transport) {
	c := newConn(t, s.codec, s.log, rate.NewLimiter(s.opts.MessageRate, s.opts.MessageBurst))
	c.log.Info("Handle: connection from %s", t.RemoteAddr())

	hb := heartbeat.New(s.opts.Heartbeat, func() {
		c.log.Warn("Handle: %q stopped beating", c.Nickname())
		s.drop(c, app.ReasonUnreachable)
	})
	c.hb = hb
	hb.Attach(func() error { return c.Send(protocol.New(protocol.Beat)) })
	hb.Start()
	defer hb.Close()
	defer s.drop(c, app.ReasonUnreachable)

	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	if err := c.Send(protocol.New(protocol.EnterNickname)); err != nil {
		return
	}
	for {
		line, err := t.ReadLine()
		if err != nil {
			c.log.Debug("Handle: read: %v", err)
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		hb.Beat()
		if err := c.limiter.Wait(ctx); err != nil {
			return
		}

		msg, err := s.codec.Decode(line)
		if err != nil {
			c.log.Warn("Handle: undecodable frame: %v", err)
			s.drop(c, app.ReasonProtocol)
			return
		}
		if !s.dispatch(ctx, c, msg) {
			return
		}
	}
}

// dispatch handles one frame. It reports false once the connection is finished.
func (s *Server) dispatch(ctx context.Context, c *Conn, msg protocol.Message) bool {
	switch {
	case msg.Command == protocol.Beat:
	case msg.Command == protocol.Login:
		nickname, err := msg.String("nickname")
		if err != nil || strings.TrimSpace(nickname) == "" {
			s.drop(c, app.ReasonProtocol)
			return false
		}
		if c.Nickname() != "" {
			_ = c.Send(app.IllegalMoveMessage("already logged in", protocol.Login))
			return true
		}
		if !s.lobby.Register(nickname, c) {
			_ = c.Send(protocol.New(protocol.NicknameAlreadyPresent).Quoted("nickname", nickname))
			return true
		}
		c.setNickname(nickname)
		_ = c.Send(protocol.New(protocol.LoginSuccessful).Quoted("nickname", nickname))
	case msg.Command == protocol.JoinMatch:
		players, err := msg.IntValue("players")
		if err != nil {
			s.drop(c, app.ReasonProtocol)
			return false
		}
		expert, err := msg.Bool("expert")
		if err != nil {
			s.drop(c, app.ReasonProtocol)
			return false
		}
		switch {
		case c.Nickname() == "":
			_ = c.Send(app.IllegalMoveMessage("login first", protocol.JoinMatch))
		case c.controller() != nil:
			_ = c.Send(app.IllegalMoveMessage("already in a match", protocol.JoinMatch))
		default:
			if _, err := s.lobby.Join(ctx, c, players, expert); err != nil {
				_ = c.Send(app.IllegalMoveMessage(err.Error(), protocol.JoinMatch))
			}
		}
	case msg.Command == protocol.AddPlayer || msg.Command.IsMove():
		ctrl := c.controller()
		if ctrl == nil || !ctrl.Submit(command{kind: cmdMessage, conn: c, msg: msg}) {
			_ = c.Send(app.IllegalMoveMessage("not in a match", msg.Command))
		}
	case msg.Command == protocol.Logout:
		s.drop(c, app.ReasonLogout)
		return false
	default:
		c.log.Warn("Handle: unexpected %s from client", msg.Command)
		s.drop(c, app.ReasonProtocol)
		return false
	}
	return true
}

// drop leaves the match with reason, releases the nickname and closes c. Only the first
// call has an effect.
func (s *Server) drop(c *Conn, reason string) {
	c.dropOnce.Do(func() {
		if ctrl := c.controller(); ctrl != nil {
			ctrl.Submit(command{kind: cmdLeave, conn: c, reason: reason})
		}
		if nick := c.Nickname(); nick != "" {
			s.lobby.Unregister(nick, c)
		}
		c.Close()
	})
}
