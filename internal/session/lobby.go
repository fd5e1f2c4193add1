package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"eriantys/internal/app"
	"eriantys/internal/domain"
)

var ErrMatchClosed = errors.New("match is no longer accepting players")

type variantKey struct {
	players int
	expert  bool
}

// Lobby binds nicknames to connections and groups joining players into matches of the
// requested variant.
type Lobby struct {
	mu        sync.Mutex
	svc       *app.Service
	log       runtime.Logger
	nicknames map[string]*Conn
	open      map[variantKey]*Controller
	matches   map[string]*Controller
}

func NewLobby(svc *app.Service, log runtime.Logger) *Lobby {
	return &Lobby{
		svc:       svc,
		log:       log,
		nicknames: map[string]*Conn{},
		open:      map[variantKey]*Controller{},
		matches:   map[string]*Controller{},
	}
}

// Register claims nickname for c. It reports false if another connection holds it.
func (l *Lobby) Register(nickname string, c *Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.nicknames[nickname]; taken {
		return false
	}
	l.nicknames[nickname] = c
	return true
}

// Unregister releases nickname if c still holds it.
func (l *Lobby) Unregister(nickname string, c *Conn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.nicknames[nickname] == c {
		delete(l.nicknames, nickname)
	}
}

// Join seats c in an open match of the variant, creating one when none has a free seat.
func (l *Lobby) Join(ctx context.Context, c *Conn, players int, expert bool) (*Controller, error) {
	if _, err := domain.NewVariant(players); err != nil {
		return nil, err
	}

	l.mu.Lock()
	key := variantKey{players: players, expert: expert}
	ctrl := l.open[key]
	if ctrl == nil {
		m, err := l.svc.CreateMatch(players, expert)
		if err != nil {
			l.mu.Unlock()
			return nil, err
		}
		ctrl = newController(uuid.NewString(), m, l.svc, l.log, l.remove)
		l.open[key] = ctrl
		l.matches[ctrl.ID] = ctrl
		go ctrl.Run(ctx)
	}
	ctrl.seats++
	if ctrl.seats == players {
		delete(l.open, key)
	}
	l.mu.Unlock()

	c.setController(ctrl)
	if !ctrl.Submit(command{kind: cmdJoin, conn: c}) {
		c.detach(ctrl)
		return nil, ErrMatchClosed
	}
	return ctrl, nil
}

func (l *Lobby) remove(ctrl *Controller) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.matches, ctrl.ID)
	key := variantKey{players: ctrl.Players, expert: ctrl.Expert}
	if l.open[key] == ctrl {
		delete(l.open, key)
	}
}

// Matches returns the number of live matches.
func (l *Lobby) Matches() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.matches)
}
