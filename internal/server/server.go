// Package server implements the accept loop and the game-selection
// handshake that hands connected players off to a game manager.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/termninja/termninja/internal/core"
	tndebug "github.com/termninja/termninja/internal/core/debug"
	"github.com/termninja/termninja/internal/game"
	"github.com/termninja/termninja/internal/player"
	"github.com/termninja/termninja/internal/term"
)

// How long the accept goroutine sleeps while the server is at its
// connection limit.
const acceptBackoff = 250 * time.Millisecond

// Hooks are the optional per-connection callbacks the orchestrator installs
// around the accept path. Any nil hook is skipped (ShouldAcceptPlayer
// defaults to accepting everyone).
type Hooks struct {
	// OnPlayerConnected runs as soon as the socket is wrapped, before any
	// accept decision.
	OnPlayerConnected func(ctx context.Context, p *player.Player)
	// ShouldAcceptPlayer decides whether the connection proceeds. A false
	// result closes the player immediately and no further hooks run.
	ShouldAcceptPlayer func(ctx context.Context, p *player.Player) bool
	// OnPlayerAccepted runs after acceptance, before the menu is shown.
	OnPlayerAccepted func(ctx context.Context, p *player.Player)
}

// Server owns the listening socket and routes each accepted player through
// the menu handshake to the manager they choose. The manager list is fixed
// at construction; menu numbering never changes while the server runs.
type Server struct {
	config   *core.Config
	logger   *zap.SugaredLogger
	managers []game.Manager
	hooks    Hooks
	menu     string

	listener net.Listener

	mutex  sync.Mutex
	active int
}

// New builds a Server over the given managers. The menu text is rendered
// once, here, in manager order.
func New(config *core.Config, logger *zap.SugaredLogger, managers []game.Manager, hooks Hooks) *Server {
	return &Server{
		config:   config,
		logger:   logger,
		managers: managers,
		hooks:    hooks,
		menu:     buildMenu(managers),
	}
}

func buildMenu(managers []game.Manager) string {
	var b strings.Builder
	b.WriteString("\r\n")
	b.WriteString(term.Heading("   t e r m n i n j a"))
	b.WriteString("\r\n\r\n")
	for i, m := range managers {
		fmt.Fprintf(&b, "  %d) %s\r\n", i+1, m.Name())
	}
	b.WriteString("\r\n  > ")
	return b.String()
}

// Listen opens the TCP socket without starting the accept loop. Splitting
// this from Start lets callers learn the bound address first (tests bind
// port 0).
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.config.ListenAddress())
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", s.config.ListenAddress(), err)
	}
	s.listener = listener
	return nil
}

// Addr is the address the server is listening on. Only valid after Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start initializes every manager, then blocks accepting connections until
// the context is cancelled. On return the listener is closed and every
// in-flight connection goroutine has finished.
func (s *Server) Start(ctx context.Context) error {
	if err := s.initManagers(ctx); err != nil {
		return err
	}

	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.logger.Infof("waiting for connections on %s", s.Addr())

	connections := make(chan net.Conn)
	done := make(chan struct{})
	go s.acceptLoop(connections, done)

	clientWg := &sync.WaitGroup{}
handleLoop:
	for {
		select {
		case <-ctx.Done():
			break handleLoop
		case connection, ok := <-connections:
			if !ok {
				break handleLoop
			}
			clientWg.Add(1)
			go func() {
				defer clientWg.Done()
				s.handleConnection(ctx, connection)
			}()
		}
	}

	// Closing the listener unblocks the pending Accept; the done channel
	// unblocks an accept goroutine that already holds a socket. Blocked
	// player reads are unwound per connection via context.AfterFunc.
	close(done)
	_ = s.listener.Close()
	s.logger.Info("shutting down (waiting for connections to close)")
	clientWg.Wait()
	s.logger.Info("all connections closed")
	return nil
}

// initManagers runs every manager's Init hook. All managers get a chance to
// initialize even when an earlier one fails.
func (s *Server) initManagers(ctx context.Context) error {
	errs := make([]error, len(s.managers))
	var wg sync.WaitGroup
	for i, m := range s.managers {
		wg.Add(1)
		go func(i int, m game.Manager) {
			defer wg.Done()
			if err := m.Init(ctx); err != nil {
				errs[i] = fmt.Errorf("error initializing %s: %w", m.FriendlyName(), err)
			}
		}(i, m)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// acceptLoop feeds accepted sockets to the handle loop. It exits when the
// listener is closed or the done channel signals that nothing will read
// from the connections channel anymore.
func (s *Server) acceptLoop(connections chan<- net.Conn, done <-chan struct{}) {
	defer close(connections)

	for {
		// Poll until we can accept more players.
		for s.config.MaxConnections > 0 && s.activeConnections() >= s.config.MaxConnections {
			time.Sleep(acceptBackoff)
		}

		connection, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warnf("failed to accept connection: %v", err)
			continue
		}

		select {
		case connections <- connection:
		case <-done:
			// Accepted in the same instant the server stopped; nobody will
			// handle this socket.
			_ = connection.Close()
			return
		}
	}
}

func (s *Server) activeConnections() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.active
}

func (s *Server) trackConnection(delta int) {
	s.mutex.Lock()
	s.active += delta
	s.mutex.Unlock()
	tndebug.ActiveConnections.Add(float64(delta))
}

// handleConnection walks one socket through the hooks and the menu, then
// hands the player to the chosen manager. It owns the connection until the
// manager takes over and is the backstop that closes it.
func (s *Server) handleConnection(ctx context.Context, connection net.Conn) {
	p := player.New(connection)

	s.trackConnection(1)
	defer s.trackConnection(-1)
	defer s.closePlayerAndRecover(p)

	// A shutdown must unwind reads blocked at the menu (which has no
	// timeout) or inside a session.
	stop := context.AfterFunc(ctx, func() { _ = p.Close() })
	defer stop()

	s.logger.Infof("accepted connection from %s", p.RemoteAddr())

	if s.hooks.OnPlayerConnected != nil {
		s.hooks.OnPlayerConnected(ctx, p)
	}
	if s.hooks.ShouldAcceptPlayer != nil && !s.hooks.ShouldAcceptPlayer(ctx, p) {
		s.logger.Infof("rejected connection from %s", p.RemoteAddr())
		return
	}
	if s.hooks.OnPlayerAccepted != nil {
		s.hooks.OnPlayerAccepted(ctx, p)
	}

	choice, err := s.runMenu(p)
	if err != nil {
		if player.IsTransportErr(err) {
			s.logger.Debugf("connection %s left during menu: %v", p.RemoteAddr(), err)
		} else {
			s.logger.Warnf("menu failed for %s: %v", p.RemoteAddr(), err)
		}
		return
	}

	manager := s.managers[choice-1]
	s.logger.Infof("routing %s to %s", p.RemoteAddr(), manager.FriendlyName())

	if err := manager.PlayerConnected(ctx, p); err != nil {
		s.logger.Warnf("session error for %s in %s: %v", p.RemoteAddr(), manager.FriendlyName(), err)
	}
}

// runMenu repeats the numbered game list until the player submits a valid
// 1-based selection. Invalid input just re-prompts; only transport failures
// end the loop.
func (s *Server) runMenu(p *player.Player) (int, error) {
	for {
		if err := p.Send(s.menu); err != nil {
			return 0, err
		}

		line, err := p.ReadLine(0)
		if err != nil {
			return 0, err
		}

		choice, ok := s.validateChoice(line)
		if !ok {
			tndebug.MenuRejects.Inc()
			continue
		}
		return choice, nil
	}
}

// validateChoice parses a menu submission as a bare 1-based integer.
func (s *Server) validateChoice(line string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 1 || n > len(s.managers) {
		return 0, false
	}
	return n, true
}

// closePlayerAndRecover is the failsafe that catches panics out of a
// session and disconnects the player regardless of how handling ended.
func (s *Server) closePlayerAndRecover(p *player.Player) {
	if err := recover(); err != nil {
		s.logger.Errorf("panic handling connection %s: %v, trace: %s",
			p.RemoteAddr(), err, debug.Stack())
	}

	_ = p.Close()
	s.logger.Infof("disconnected %s", p.RemoteAddr())
}
