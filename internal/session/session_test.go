package session

import (
	"context"
	"math/rand"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"eriantys/internal/app"
	"eriantys/internal/heartbeat"
	"eriantys/internal/logging"
	"eriantys/internal/protocol"
)

const waitFor = 2 * time.Second

// pipeTransport is an in-memory Transport driven by the test as the client.
type pipeTransport struct {
	in     chan string
	out    chan string
	closed chan struct{}
	once   sync.Once
}

func newPipe() *pipeTransport {
	return &pipeTransport{
		in:     make(chan string, 64),
		out:    make(chan string, 256),
		closed: make(chan struct{}),
	}
}

func (p *pipeTransport) ReadLine() (string, error) {
	select {
	case line := <-p.in:
		return line, nil
	case <-p.closed:
		return "", net.ErrClosed
	}
}

func (p *pipeTransport) WriteLine(line string) error {
	select {
	case <-p.closed:
		return net.ErrClosed
	default:
	}
	select {
	case p.out <- line:
		return nil
	case <-p.closed:
		return net.ErrClosed
	}
}

func (p *pipeTransport) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *pipeTransport) RemoteAddr() string { return "pipe" }

type client struct {
	t     *testing.T
	pipe  *pipeTransport
	codec *protocol.Codec
}

func (c *client) send(msg protocol.Message) {
	c.t.Helper()
	c.pipe.in <- c.codec.Encode(msg)
}

// next returns the next non-beat frame from the server.
func (c *client) next() protocol.Message {
	c.t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case line := <-c.pipe.out:
			msg, err := c.codec.Decode(line)
			require.NoError(c.t, err, line)
			if msg.Command == protocol.Beat {
				continue
			}
			return msg
		case <-deadline:
			c.t.Fatalf("no frame within %s", waitFor)
			return protocol.Message{}
		}
	}
}

func (c *client) expect(kind protocol.Kind) protocol.Message {
	c.t.Helper()
	msg := c.next()
	require.Equal(c.t, kind, msg.Command, "frame %+v", msg)
	return msg
}

func (c *client) expectClosed() {
	c.t.Helper()
	select {
	case <-c.pipe.closed:
	case <-time.After(waitFor):
		c.t.Fatalf("connection not closed within %s", waitFor)
	}
}

func quietHeartbeat() heartbeat.Config {
	return heartbeat.Config{BeatInterval: time.Hour, CheckInterval: time.Hour, Timeout: time.Hour}
}

func newTestServer(t *testing.T, hb heartbeat.Config) (*Server, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	svc := app.NewService(rand.New(rand.NewSource(3)))
	return NewServer(protocol.NewCodec(), svc, logging.Nop(), Options{Heartbeat: hb}), ctx
}

func connect(ctx context.Context, t *testing.T, s *Server) *client {
	t.Helper()
	pipe := newPipe()
	go s.Handle(ctx, pipe)
	c := &client{t: t, pipe: pipe, codec: s.codec}
	c.expect(protocol.EnterNickname)
	return c
}

func login(t *testing.T, c *client, nickname string) {
	t.Helper()
	c.send(protocol.New(protocol.Login).Quoted("nickname", nickname))
	msg := c.expect(protocol.LoginSuccessful)
	require.Equal(t, nickname, msg.Get("nickname"))
}

// startMatch logs in and seats two players with their identities, returning the clients
// once the initialization frame reached both.
func startMatch(t *testing.T, s *Server, ctx context.Context) (*client, *client) {
	t.Helper()
	a, b := connect(ctx, t, s), connect(ctx, t, s)
	login(t, a, "alice")
	login(t, b, "bob")

	join := protocol.New(protocol.JoinMatch).Int("players", 2).Bare("expert", "false")
	a.send(join)
	joined := a.expect(protocol.JoinSuccessful)
	assert.Equal(t, "2", joined.Get("players"))
	assert.Equal(t, "false", joined.Get("expert"))
	prompt := a.expect(protocol.ChooseWizardTower)
	assert.Equal(t, "alice", prompt.Get("nickname"))

	b.send(join)
	assert.Equal(t, joined.Get("matchId"), b.expect(protocol.JoinSuccessful).Get("matchId"))

	a.send(protocol.New(protocol.AddPlayer).Quoted("wizard", "KING").Quoted("tower", "WHITE"))
	for _, c := range []*client{a, b} {
		added := c.expect(protocol.AddPlayer)
		assert.Equal(t, "alice", added.Get("nickname"))
		prompt := c.expect(protocol.ChooseWizardTower)
		assert.Equal(t, "bob", prompt.Get("nickname"))
		assert.Equal(t, `["PIXIE","SORCERER","WIZARD"]`, prompt.Get("wizards"))
	}

	b.send(protocol.New(protocol.AddPlayer).Quoted("wizard", "PIXIE").Quoted("tower", "BLACK"))
	for _, c := range []*client{a, b} {
		c.expect(protocol.AddPlayer)
		initMsg := c.expect(protocol.Initialization)
		assert.Contains(t, initMsg.Get("state"), `"stage":"PLANNING_PLAY_ASSISTANTS"`)
	}
	return a, b
}

func TestLoginRejectsDuplicateNickname(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	a, b := connect(ctx, t, s), connect(ctx, t, s)
	login(t, a, "alice")

	b.send(protocol.New(protocol.Login).Quoted("nickname", "alice"))
	msg := b.expect(protocol.NicknameAlreadyPresent)
	assert.Equal(t, "alice", msg.Get("nickname"))
	login(t, b, "bob")
}

func TestJoinRequiresLogin(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	c := connect(ctx, t, s)
	c.send(protocol.New(protocol.JoinMatch).Int("players", 2).Bare("expert", "false"))
	msg := c.expect(protocol.IllegalMove)
	assert.Equal(t, string(protocol.JoinMatch), msg.Get("move"))
}

func TestJoinRejectsPlayerCount(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	c := connect(ctx, t, s)
	login(t, c, "alice")
	c.send(protocol.New(protocol.JoinMatch).Int("players", 5).Bare("expert", "true"))
	c.expect(protocol.IllegalMove)
	assert.Zero(t, s.Lobby().Matches())
}

func TestRejectedIdentityReprompts(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	a := connect(ctx, t, s)
	login(t, a, "alice")
	a.send(protocol.New(protocol.JoinMatch).Int("players", 3).Bare("expert", "true"))
	a.expect(protocol.JoinSuccessful)
	a.expect(protocol.ChooseWizardTower)

	a.send(protocol.New(protocol.AddPlayer).Quoted("wizard", "DRAGON").Quoted("tower", "WHITE"))
	a.expect(protocol.IllegalMove)
	prompt := a.expect(protocol.ChooseWizardTower)
	assert.Equal(t, "alice", prompt.Get("nickname"))
}

func TestMoves(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	a, b := startMatch(t, s, ctx)

	// bob is not the current player
	b.send(protocol.New(protocol.PlayAssistant).Int("assistant", 3))
	rejected := b.expect(protocol.IllegalMove)
	assert.Equal(t, string(protocol.PlayAssistant), rejected.Get("move"))

	a.send(protocol.New(protocol.PlayAssistant).Int("assistant", 3))
	for _, c := range []*client{a, b} {
		done := c.expect(protocol.MoveDone)
		assert.Equal(t, "alice", done.Get("player"))
		assert.Equal(t, string(protocol.PlayAssistant), done.Get("move"))
		assert.Contains(t, done.Get("state"), `"current":"bob"`)
	}

	// the rejection reached bob only
	select {
	case line := <-a.pipe.out:
		t.Fatalf("unexpected frame for alice: %s", line)
	default:
	}
}

func TestLogoutEndsMatch(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	a, b := startMatch(t, s, ctx)

	a.send(protocol.New(protocol.Logout))
	a.expectClosed()
	msg := b.expect(protocol.ForceEndMatch)
	assert.Equal(t, app.ReasonLogout, msg.Get("reason"))
	assert.Equal(t, "alice", msg.Get("nickname"))

	require.Eventually(t, func() bool { return s.Lobby().Matches() == 0 }, waitFor, 10*time.Millisecond)

	// the nickname is free again and bob can look for a new match
	c := connect(ctx, t, s)
	login(t, c, "alice")
	b.send(protocol.New(protocol.JoinMatch).Int("players", 2).Bare("expert", "false"))
	b.expect(protocol.JoinSuccessful)
}

func TestMalformedMoveIsProtocolError(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	a, b := startMatch(t, s, ctx)

	a.send(protocol.New(protocol.PlayAssistant))
	a.expectClosed()
	msg := b.expect(protocol.ForceEndMatch)
	assert.Equal(t, app.ReasonProtocol, msg.Get("reason"))
}

func TestUndecodableFrameClosesConnection(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	a, b := startMatch(t, s, ctx)

	a.pipe.in <- `{"nickname": "alice"}`
	a.expectClosed()
	msg := b.expect(protocol.ForceEndMatch)
	assert.Equal(t, app.ReasonProtocol, msg.Get("reason"))
}

func TestSilentPeerIsUnreachable(t *testing.T) {
	s, ctx := newTestServer(t, heartbeat.Config{
		BeatInterval:  10 * time.Millisecond,
		CheckInterval: 10 * time.Millisecond,
		Timeout:       300 * time.Millisecond,
	})
	c, d := connect(ctx, t, s), connect(ctx, t, s)

	stopBeats := make(chan struct{})
	defer close(stopBeats)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopBeats:
				return
			case <-d.pipe.closed:
				return
			case <-ticker.C:
				d.pipe.in <- `{"command": "beat"}`
			}
		}
	}()

	login(t, c, "carol")
	login(t, d, "dave")
	join := protocol.New(protocol.JoinMatch).Int("players", 2).Bare("expert", "true")
	c.send(join)
	c.expect(protocol.JoinSuccessful)
	d.send(join)

	// carol stays silent from here on
	c.expectClosed()
	for {
		msg := d.next()
		if msg.Command == protocol.ForceEndMatch {
			assert.Equal(t, app.ReasonUnreachable, msg.Get("reason"))
			assert.Equal(t, "carol", msg.Get("nickname"))
			return
		}
	}
}

func TestServeTCP(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	tr := NewLineTransport(conn)

	line, err := tr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"command": "enterNickname"}`, line)

	require.NoError(t, tr.WriteLine(`{"command": "login", "nickname": "alice"}`))
	line, err = tr.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, `{"command": "loginSuccessful", "nickname": "alice"}`, line)

	require.NoError(t, tr.WriteLine(`{"command": "logout"}`))
	_, err = tr.ReadLine()
	assert.Error(t, err)
}

func TestWebSocket(t *testing.T) {
	s, ctx := newTestServer(t, quietHeartbeat())
	srv := httptest.NewServer(s.WebSocketHandler(ctx))
	defer srv.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer ws.Close()

	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"command": "enterNickname"}`, string(data))

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"command": "login", "nickname": "bob"}`)))
	_, data, err = ws.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"command": "loginSuccessful", "nickname": "bob"}`, string(data))
}

func TestThrottledFrameStillCountsAsBeat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	svc := app.NewService(rand.New(rand.NewSource(3)))
	s := NewServer(protocol.NewCodec(), svc, logging.Nop(), Options{
		Heartbeat:    quietHeartbeat(),
		MessageRate:  rate.Every(time.Hour),
		MessageBurst: 1,
	})

	c := connect(ctx, t, s)
	login(t, c, "alice")

	s.lobby.mu.Lock()
	conn := s.lobby.nicknames["alice"]
	s.lobby.mu.Unlock()
	require.NotNil(t, conn)
	before := conn.hb.LastBeat()

	time.Sleep(10 * time.Millisecond)
	// The limiter has no token left, so this frame waits; its beat must not.
	c.send(protocol.New(protocol.Beat))
	require.Eventually(t, func() bool {
		return conn.hb.LastBeat().After(before)
	}, waitFor, 5*time.Millisecond)
}
