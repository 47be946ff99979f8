package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/termninja/termninja/internal/player"
	"github.com/termninja/termninja/internal/term"
)

// Manager advertises one game on the server menu and converts accepted
// players into controller sessions. Managers are created once at startup
// and live for the process lifetime.
type Manager interface {
	// Name is the display name shown on the menu.
	Name() string
	// FriendlyName is the stable name rounds are recorded under.
	FriendlyName() string
	// Init is called once before the server starts accepting. No players yet.
	Init(ctx context.Context) error
	// PlayerConnected takes ownership of the player. It returns once the
	// player's session has finished, even when the session started on
	// another player's intake, or once an unmatched waiter has gone away.
	PlayerConnected(ctx context.Context, p *player.Player) error
}

// SessionFactory builds a controller for one player.
type SessionFactory func(p *player.Player) *Controller

// SoloManager starts a dedicated session for every player as they arrive.
type SoloManager struct {
	name         string
	friendlyName string
	newSession   SessionFactory

	active atomic.Int64
}

// NewSoloManager returns a Manager that runs factory-built sessions, one
// player each.
func NewSoloManager(name, friendlyName string, factory SessionFactory) *SoloManager {
	return &SoloManager{
		name:         name,
		friendlyName: friendlyName,
		newSession:   factory,
	}
}

func (m *SoloManager) Name() string         { return m.name }
func (m *SoloManager) FriendlyName() string { return m.friendlyName }

func (m *SoloManager) Init(ctx context.Context) error { return nil }

// PlayerConnected runs the player's session on the calling goroutine.
func (m *SoloManager) PlayerConnected(ctx context.Context, p *player.Player) error {
	m.active.Add(1)
	defer m.active.Add(-1)

	return m.newSession(p).Start(ctx)
}

// ActiveSessions reports how many sessions this manager is currently running.
func (m *SoloManager) ActiveSessions() int64 { return m.active.Load() }

// DuelSessionFactory builds a controller for a matched pair.
type DuelSessionFactory func(p1, p2 *player.Player) *Controller

// waiting tracks the player parked in the matchmaking slot. The watcher
// goroutine polls their connection so an abandoned slot gets cleared.
type waiting struct {
	p           *player.Player
	matched     chan struct{}
	watcherDone chan struct{}
	sessionDone chan struct{}
}

// DuelManager pairs players up: the first arrival waits, the second starts a
// two-player session.
type DuelManager struct {
	name         string
	friendlyName string
	newSession   DuelSessionFactory
	// How often the waiting player's connection is checked for life.
	waitPoll time.Duration

	mutex sync.Mutex
	slot  *waiting

	active atomic.Int64
}

// NewDuelManager returns a Manager with a one-deep matchmaking queue.
func NewDuelManager(name, friendlyName string, factory DuelSessionFactory) *DuelManager {
	return &DuelManager{
		name:         name,
		friendlyName: friendlyName,
		newSession:   factory,
		waitPoll:     250 * time.Millisecond,
	}
}

func (m *DuelManager) Name() string         { return m.name }
func (m *DuelManager) FriendlyName() string { return m.friendlyName }

func (m *DuelManager) Init(ctx context.Context) error { return nil }

func (m *DuelManager) PlayerConnected(ctx context.Context, p *player.Player) error {
	m.mutex.Lock()
	if m.slot == nil {
		w := &waiting{
			p:           p,
			matched:     make(chan struct{}),
			watcherDone: make(chan struct{}),
			sessionDone: make(chan struct{}),
		}
		m.slot = w
		m.mutex.Unlock()

		if err := p.Send(term.Info("Waiting for an opponent...") + "\r\n"); err != nil {
			m.clearSlot(w)
			return nil
		}
		m.watchWaiting(ctx, w)

		// When a match happened, the second player's intake is running the
		// session with this player in it. Returning now would hand the
		// connection back to the server's teardown path mid-game, so hold
		// the intake open until the session finishes.
		select {
		case <-w.matched:
			<-w.sessionDone
		default:
		}
		return nil
	}

	w := m.slot
	m.slot = nil
	m.mutex.Unlock()

	// Stop the watcher before the session starts so nothing else is
	// reading the waiting player's input.
	close(w.matched)
	<-w.watcherDone
	defer close(w.sessionDone)

	m.active.Add(1)
	defer m.active.Add(-1)

	return m.newSession(w.p, p).Start(ctx)
}

// ActiveSessions reports how many sessions this manager is currently running.
func (m *DuelManager) ActiveSessions() int64 { return m.active.Load() }

// watchWaiting blocks until the parked player is matched or goes away.
// Anything they type while waiting is discarded.
func (m *DuelManager) watchWaiting(ctx context.Context, w *waiting) {
	defer close(w.watcherDone)

	for {
		select {
		case <-w.matched:
			return
		case <-ctx.Done():
			m.clearSlot(w)
			return
		default:
		}

		_, err := w.p.ReadLine(m.waitPoll)
		if err == nil || player.IsTimeout(err) {
			continue
		}

		// The waiting player disconnected. Unless they were matched in
		// the meantime, free the slot for the next arrival.
		m.clearSlot(w)
		return
	}
}

func (m *DuelManager) clearSlot(w *waiting) {
	m.mutex.Lock()
	if m.slot == w {
		m.slot = nil
	}
	m.mutex.Unlock()
	_ = w.p.Close()
}
