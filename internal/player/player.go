// Package player wraps an accepted socket in the line transport and session
// state the game controllers operate on.
package player

import (
	"net"
	"time"
)

// Identity holds whatever the identity resolution hook learned about the
// connected user. A nil Identity means the player is anonymous.
type Identity struct {
	Username string
}

// Player represents one connected user for the lifetime of their connection.
// A Player owns exactly one Conn and belongs to at most one controller
// session at a time.
type Player struct {
	conn *Conn

	identity *Identity
	score    int
	earned   int
}

// New wraps an accepted socket in a Player with no identity.
func New(conn net.Conn) *Player {
	return &Player{conn: NewConn(conn)}
}

// Send writes the string to the player's terminal.
func (p *Player) Send(line string) error { return p.conn.Send(line) }

// ReadLine reads the player's next input line. See Conn.ReadLine for the
// timeout contract.
func (p *Player) ReadLine(timeout time.Duration) (string, error) {
	return p.conn.ReadLine(timeout)
}

// Close releases the player's connection. Idempotent.
func (p *Player) Close() error { return p.conn.Close() }

// RemoteAddr returns the peer address, for logging.
func (p *Player) RemoteAddr() string { return p.conn.RemoteAddr() }

// SetIdentity attaches a resolved identity to the player.
func (p *Player) SetIdentity(identity *Identity) { p.identity = identity }

// Username returns the player's username and whether they have one.
func (p *Player) Username() (string, bool) {
	if p.identity == nil {
		return "", false
	}
	return p.identity.Username, true
}

// Score returns the player's cumulative score across past games.
func (p *Player) Score() int { return p.score }

// SetScore sets the cumulative score loaded from storage for known identities.
func (p *Player) SetScore(score int) { p.score = score }

// Earned returns the points gained during the current session.
func (p *Player) Earned() int { return p.earned }

// AddEarned credits points earned during the current session. Negative
// deltas are ignored; a session total only ever grows.
func (p *Player) AddEarned(points int) {
	if points > 0 {
		p.earned += points
	}
}

// ResetEarned zeroes the session total. Called once by the controller when a
// session starts.
func (p *Player) ResetEarned() { p.earned = 0 }
